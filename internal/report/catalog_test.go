package report

import "testing"

func TestDefaultCatalogValidates(t *testing.T) {
	if err := DefaultCatalog().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateBoundaryOutsideOrder(t *testing.T) {
	cat := DefaultCatalog()
	cat.Boundaries["No Such Product"] = "PAZ"
	if err := cat.Validate(); err == nil {
		t.Fatal("expected error for boundary outside product order")
	}
}

func TestValidateUndefinedBrand(t *testing.T) {
	cat := DefaultCatalog()
	cat.Boundaries["PAZ Berry frost +"] = "GHOST"
	if err := cat.Validate(); err == nil {
		t.Fatal("expected error for undefined brand")
	}
}

func TestValidateBrandProductOutsideOrder(t *testing.T) {
	cat := DefaultCatalog()
	cat.Brands["PAZ"] = append([]string{"Phantom"}, cat.Brands["PAZ"]...)
	if err := cat.Validate(); err == nil {
		t.Fatal("expected error for brand product outside order")
	}
}
