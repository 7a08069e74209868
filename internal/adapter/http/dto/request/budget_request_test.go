package request

import (
	"reflect"
	"testing"

	"catering_admin/internal/domain/entities"
)

func TestClientInfoRequest_ToEntity(t *testing.T) {
	r := ClientInfoRequest{Name: " Durand ", Email: " d@example.com ", GuestCount: 80, MenuType: "premium"}
	got := r.ToEntity()
	if got.Name != "Durand" || got.Email != "d@example.com" || got.GuestCount != 80 {
		t.Fatalf("unexpected client info: %+v", got)
	}
	if got.MenuType != entities.MenuTypePremium {
		t.Fatalf("expected premium, got %q", got.MenuType)
	}
}

func TestMaterialItemRequests(t *testing.T) {
	item := MaterialItemRequest{Name: " Chaises ", Quantity: 50, PricePerUnit: 1.5}.ToEntity()
	if item.Name != "Chaises" || item.Quantity != 50 || item.PricePerUnit != 1.5 {
		t.Fatalf("unexpected item: %+v", item)
	}

	qty := 3.0
	patch := MaterialItemPatchRequest{Quantity: &qty}.ToPatch()
	if patch.Name != nil || patch.PricePerUnit != nil || patch.Quantity == nil || *patch.Quantity != 3 {
		t.Fatalf("unexpected patch: %+v", patch)
	}
}

func TestMenuRequest_ToEntity(t *testing.T) {
	got := MenuRequest{PricePerPerson: 25, TotalPersons: 80, TVAPct: 10}.ToEntity()
	if !reflect.DeepEqual(got, entities.MenuSection{PricePerPerson: 25, TotalPersons: 80, TVAPct: 10}) {
		t.Fatalf("unexpected menu: %+v", got)
	}
}
