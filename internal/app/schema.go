package app

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// requestBodies maps a published schema name to the request type it describes.
var requestBodies = map[string]any{
	"create-bill":      CreateBillRequest{},
	"update-bill":      UpdateBillRequest{},
	"stock-adjustment": StockAdjustmentRequest{},
	"create-transfer":  CreateTransferRequest{},
	"cash-count":       CashCountRequest{},
	"cash-source":      CashSourceRequest{},
	"bank-deposit":     BankDepositRequest{},
	"cash-expense":     CashExpenseRequest{},
}

// SchemaNames lists the request bodies a JSON Schema is published for.
func SchemaNames() []string {
	names := make([]string, 0, len(requestBodies))
	for name := range requestBodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns the JSON Schema for a named request body.
func Schema(name string) ([]byte, error) {
	v, ok := requestBodies[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper:                     mapDecimal,
	}
	b, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema %s: %w", name, err)
	}
	return b, nil
}

// mapDecimal describes money fields, which decode from a number or a string.
func mapDecimal(t reflect.Type) *jsonschema.Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != decimalType {
		return nil
	}
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "string", Pattern: `^-?[0-9]+(\.[0-9]+)?$`},
		},
	}
}
