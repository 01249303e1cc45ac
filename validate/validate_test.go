package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

type sample struct {
	Name     string          `json:"name" validate:"required,min=3"`
	Language string          `json:"language" validate:"notblank"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Discount *int            `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
}

func TestCheckCollectsAllErrors(t *testing.T) {
	bad := 120
	err := Check(sample{
		Name:     "ab",
		Language: "   ",
		Price:    decimal.Zero,
		Discount: &bad,
	})

	fe, ok := AsFieldErrors(err)
	if !ok {
		t.Fatalf("expected FieldErrors, got %T: %v", err, err)
	}

	exp := FieldErrors{
		"name":                "name must be at least 3 characters in length",
		"language":            "language cannot be blank",
		"price":               "price must be greater than 0",
		"discount_percentage": "discount_percentage must be 100 or less",
	}
	if diff := cmp.Diff(exp, fe); diff != "" {
		t.Fatalf("unexpected field errors (-want +got):\n%s", diff)
	}
}

func TestCheckValid(t *testing.T) {
	ok := 20
	err := Check(sample{
		Name:     "golang",
		Language: "English",
		Price:    decimal.RequireFromString("49.99"),
		Discount: &ok,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestFieldErrorsAddKeepsFirst(t *testing.T) {
	fe := make(FieldErrors)
	fe.Add("title", "first")
	fe.Add("title", "second")

	if fe["title"] != "first" {
		t.Fatalf("expected first message to win, got %q", fe["title"])
	}
	if fe.Error() != "title: first" {
		t.Fatalf("unexpected error text %q", fe.Error())
	}
	if (FieldErrors{}).Err() != nil {
		t.Fatal("expected nil error for empty FieldErrors")
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID(GenerateID()); err != nil {
		t.Fatalf("generated id rejected: %v", err)
	}
	if err := CheckID("42"); err == nil {
		t.Fatal("expected malformed id to be rejected")
	}
}

func TestCheckDecimalPlaces(t *testing.T) {
	type money struct {
		Amount decimal.Decimal  `json:"amount" validate:"decimals=2"`
		Tax    *decimal.Decimal `json:"tax" validate:"omitempty,decimals=2"`
	}

	tax := decimal.RequireFromString("1.234")
	tests := []struct {
		name string
		val  money
		exp  FieldErrors
	}{
		{"cents", money{Amount: decimal.RequireFromString("10.25")}, nil},
		{"trailing zeros", money{Amount: decimal.RequireFromString("10.500")}, nil},
		{"sub cent", money{Amount: decimal.RequireFromString("0.001")}, FieldErrors{
			"amount": "amount must have no more than 2 decimal places",
		}},
		{"pointer", money{Amount: decimal.NewFromInt(1), Tax: &tax}, FieldErrors{
			"tax": "tax must have no more than 2 decimal places",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, _ := AsFieldErrors(Check(tt.val))
			if diff := cmp.Diff(tt.exp, fe); diff != "" {
				t.Fatalf("unexpected field errors (-want +got):\n%s", diff)
			}
		})
	}
}
