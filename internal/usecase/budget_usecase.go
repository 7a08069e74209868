package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrBudgetNotFound          = errors.New("budget not found")
	ErrInvalidBudgetID         = errors.New("invalid budget id")
	ErrBudgetVersionConflict   = errors.New("budget was modified concurrently")
	ErrBudgetAlreadyExists     = errors.New("budget already exists")
	ErrBudgetLocked            = errors.New("budget is not editable in its current status")
	ErrInvalidStatusTransition = errors.New("invalid budget status transition")
	ErrExporterNotConfigured   = errors.New("budget exporter not configured")
)

// IBudgetUseCase exposes the back-office operations on catering budgets.
//
// Every edit follows the same cycle: load, apply one engine operation, save
// with the version that was read. expectedVersion > 0 additionally pins the
// version the caller last saw.
type IBudgetUseCase interface {
	CreateBudget(ctx context.Context, client entities.ClientInfo, menu entities.MenuSection) (entities.Budget, error)
	GetByID(ctx context.Context, id string) (entities.Budget, error)
	List(ctx context.Context) ([]entities.Budget, error)

	UpdateField(ctx context.Context, id string, expectedVersion int, path string, value any) (entities.Budget, error)
	AddSection(ctx context.Context, id string, expectedVersion int, section string, defaults map[string]any) (entities.Budget, error)
	RemoveSection(ctx context.Context, id string, expectedVersion int, section string) (entities.Budget, error)
	AddMaterialItem(ctx context.Context, id string, expectedVersion int, item entities.MaterialItem) (entities.Budget, error)
	UpdateMaterialItem(ctx context.Context, id string, expectedVersion int, index int, patch budget.MaterialItemPatch) (entities.Budget, error)
	RemoveMaterialItem(ctx context.Context, id string, expectedVersion int, index int) (entities.Budget, error)
	UpdateClientInfo(ctx context.Context, id string, expectedVersion int, client entities.ClientInfo) (entities.Budget, error)

	SubmitForReview(ctx context.Context, id string) (entities.Budget, error)
	Approve(ctx context.Context, id string) (entities.Budget, error)
	Reject(ctx context.Context, id string) (entities.Budget, error)
	MarkSent(ctx context.Context, id string, pdfURL string) (entities.Budget, error)

	Export(ctx context.Context, id string) (ExportedBudget, error)
}

// ExportedBudget is a rendered budget ready to be downloaded.
type ExportedBudget struct {
	FileName    string
	ContentType string
	Content     []byte
}

type BudgetUseCase struct {
	repo     interfaces.IBudgetRepository
	exporter interfaces.IBudgetExporter
	logger   *logrus.Logger
}

var _ IBudgetUseCase = (*BudgetUseCase)(nil)

func NewBudgetUseCase(repo interfaces.IBudgetRepository, exporter interfaces.IBudgetExporter, logger *logrus.Logger) *BudgetUseCase {
	if logger == nil {
		logger = logrus.New()
	}
	return &BudgetUseCase{repo: repo, exporter: exporter, logger: logger}
}

func (u *BudgetUseCase) log(id string) *logrus.Entry {
	return u.logger.WithFields(logrus.Fields{"module": "budget.usecase", "budget_id": id})
}

func (u *BudgetUseCase) CreateBudget(ctx context.Context, client entities.ClientInfo, menu entities.MenuSection) (entities.Budget, error) {
	b, err := budget.Normalize(entities.Budget{
		ID:         uuid.NewString(),
		ClientInfo: client,
		Menu:       menu,
		Status:     entities.BudgetStatusDraft,
	})
	if err != nil {
		return entities.Budget{}, err
	}

	created, err := u.repo.Create(ctx, b)
	if err != nil {
		u.log(b.ID).WithError(err).Error("[budget][usecase] create failed")
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return entities.Budget{}, ErrBudgetAlreadyExists
		}
		return entities.Budget{}, err
	}
	u.log(created.ID).WithField("total_ttc", created.Totals.TotalTTC).Info("[budget][usecase] created")
	return created, nil
}

func (u *BudgetUseCase) GetByID(ctx context.Context, id string) (entities.Budget, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Budget{}, ErrInvalidBudgetID
	}

	b, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Budget{}, err
	}
	if b.ID == "" {
		return entities.Budget{}, ErrBudgetNotFound
	}
	return b, nil
}

func (u *BudgetUseCase) List(ctx context.Context) ([]entities.Budget, error) {
	return u.repo.List(ctx)
}

func (u *BudgetUseCase) UpdateField(ctx context.Context, id string, expectedVersion int, path string, value any) (entities.Budget, error) {
	return u.edit(ctx, id, expectedVersion, "update-field", func(b entities.Budget) (entities.Budget, error) {
		return budget.UpdateField(b, strings.TrimSpace(path), value)
	})
}

func (u *BudgetUseCase) AddSection(ctx context.Context, id string, expectedVersion int, section string, defaults map[string]any) (entities.Budget, error) {
	s, err := budget.ParseSection(section)
	if err != nil {
		return entities.Budget{}, err
	}
	return u.edit(ctx, id, expectedVersion, "add-section", func(b entities.Budget) (entities.Budget, error) {
		return budget.AddSection(b, s, defaults)
	})
}

func (u *BudgetUseCase) RemoveSection(ctx context.Context, id string, expectedVersion int, section string) (entities.Budget, error) {
	s, err := budget.ParseSection(section)
	if err != nil {
		return entities.Budget{}, err
	}
	return u.edit(ctx, id, expectedVersion, "remove-section", func(b entities.Budget) (entities.Budget, error) {
		return budget.RemoveSection(b, s)
	})
}

func (u *BudgetUseCase) AddMaterialItem(ctx context.Context, id string, expectedVersion int, item entities.MaterialItem) (entities.Budget, error) {
	return u.edit(ctx, id, expectedVersion, "add-material-item", func(b entities.Budget) (entities.Budget, error) {
		return budget.AddMaterialItem(b, item)
	})
}

func (u *BudgetUseCase) UpdateMaterialItem(ctx context.Context, id string, expectedVersion int, index int, patch budget.MaterialItemPatch) (entities.Budget, error) {
	return u.edit(ctx, id, expectedVersion, "update-material-item", func(b entities.Budget) (entities.Budget, error) {
		return budget.UpdateMaterialItem(b, index, patch)
	})
}

func (u *BudgetUseCase) RemoveMaterialItem(ctx context.Context, id string, expectedVersion int, index int) (entities.Budget, error) {
	return u.edit(ctx, id, expectedVersion, "remove-material-item", func(b entities.Budget) (entities.Budget, error) {
		return budget.RemoveMaterialItem(b, index)
	})
}

func (u *BudgetUseCase) UpdateClientInfo(ctx context.Context, id string, expectedVersion int, client entities.ClientInfo) (entities.Budget, error) {
	return u.edit(ctx, id, expectedVersion, "update-client", func(b entities.Budget) (entities.Budget, error) {
		if client.Extra == nil {
			client.Extra = b.ClientInfo.Extra
		}
		b.ClientInfo = client
		return budget.Normalize(b)
	})
}

// edit runs op against the stored budget and saves the result. Rejected
// budgets go back to draft once edited.
func (u *BudgetUseCase) edit(ctx context.Context, id string, expectedVersion int, action string, op func(entities.Budget) (entities.Budget, error)) (entities.Budget, error) {
	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Budget{}, err
	}
	log := u.log(current.ID).WithFields(logrus.Fields{"action": action, "version": current.Version})

	if expectedVersion > 0 && expectedVersion != current.Version {
		log.WithField("expected_version", expectedVersion).Info("[budget][usecase] stale version")
		return entities.Budget{}, ErrBudgetVersionConflict
	}
	if !isEditable(current.Status) {
		log.WithField("status", current.Status).Info("[budget][usecase] edit refused")
		return entities.Budget{}, fmt.Errorf("%w: %s", ErrBudgetLocked, current.Status)
	}

	next, err := op(current)
	if err != nil {
		log.WithError(err).Info("[budget][usecase] edit rejected")
		return entities.Budget{}, err
	}
	if next.Status == entities.BudgetStatusRejected {
		next.Status = entities.BudgetStatusDraft
	}

	return u.save(ctx, log, next)
}

func (u *BudgetUseCase) SubmitForReview(ctx context.Context, id string) (entities.Budget, error) {
	return u.transition(ctx, id, entities.BudgetStatusDraft, entities.BudgetStatusPendingReview, nil)
}

func (u *BudgetUseCase) Approve(ctx context.Context, id string) (entities.Budget, error) {
	return u.transition(ctx, id, entities.BudgetStatusPendingReview, entities.BudgetStatusApproved, nil)
}

func (u *BudgetUseCase) Reject(ctx context.Context, id string) (entities.Budget, error) {
	return u.transition(ctx, id, entities.BudgetStatusPendingReview, entities.BudgetStatusRejected, nil)
}

func (u *BudgetUseCase) MarkSent(ctx context.Context, id string, pdfURL string) (entities.Budget, error) {
	pdfURL = strings.TrimSpace(pdfURL)
	return u.transition(ctx, id, entities.BudgetStatusApproved, entities.BudgetStatusSent, func(b *entities.Budget) {
		if pdfURL != "" {
			b.PDFURL = pdfURL
		}
	})
}

func (u *BudgetUseCase) transition(ctx context.Context, id string, from, to entities.BudgetStatus, apply func(*entities.Budget)) (entities.Budget, error) {
	current, err := u.GetByID(ctx, id)
	if err != nil {
		return entities.Budget{}, err
	}
	log := u.log(current.ID).WithFields(logrus.Fields{"action": "transition", "from": current.Status, "to": to, "version": current.Version})

	if current.Status != from {
		log.Info("[budget][usecase] transition refused")
		return entities.Budget{}, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, current.Status, to)
	}

	current.Status = to
	if apply != nil {
		apply(&current)
	}
	return u.save(ctx, log, current)
}

func (u *BudgetUseCase) save(ctx context.Context, log *logrus.Entry, b entities.Budget) (entities.Budget, error) {
	saved, err := u.repo.Save(ctx, b)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		log.Info("[budget][usecase] version conflict on save")
		return entities.Budget{}, ErrBudgetVersionConflict
	}
	if err != nil {
		log.WithError(err).Error("[budget][usecase] save failed")
		return entities.Budget{}, err
	}
	log.WithFields(logrus.Fields{"status": saved.Status, "new_version": saved.Version, "total_ttc": saved.Totals.TotalTTC}).Info("[budget][usecase] saved")
	return saved, nil
}

func (u *BudgetUseCase) Export(ctx context.Context, id string) (ExportedBudget, error) {
	if u.exporter == nil {
		return ExportedBudget{}, ErrExporterNotConfigured
	}
	b, err := u.GetByID(ctx, id)
	if err != nil {
		return ExportedBudget{}, err
	}

	content, err := u.exporter.Export(b)
	if err != nil {
		u.log(b.ID).WithError(err).Error("[budget][usecase] export failed")
		return ExportedBudget{}, err
	}
	return ExportedBudget{
		FileName:    fmt.Sprintf("budget-%s.%s", b.ID, u.exporter.FileExtension()),
		ContentType: u.exporter.ContentType(),
		Content:     content,
	}, nil
}

func isEditable(s entities.BudgetStatus) bool {
	return s == entities.BudgetStatusDraft || s == entities.BudgetStatusRejected
}
