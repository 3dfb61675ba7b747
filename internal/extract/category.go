package extract

import (
	"strings"

	"github.com/cartola-dev/cartola/internal/model"
	"github.com/cartola-dev/cartola/internal/normalize"
)

// Rule pairs a category with the description keywords that select it.
// Rules are evaluated in order; the first keyword hit wins.
type Rule struct {
	Category model.Category
	Keywords []string
}

// DefaultRules returns the built-in categorization table for Chilean bank
// statement wording.
func DefaultRules() []Rule {
	return []Rule{
		{model.CategoryTransferencia, []string{"transferencia", "transf", "traspaso"}},
		{model.CategoryPago, []string{"pago", "pac", "compra"}},
		{model.CategoryDeposito, []string{"deposito", "dep "}},
		{model.CategoryComision, []string{"comision", "mantencion", "cargo fijo"}},
		{model.CategoryInteres, []string{"interes"}},
		{model.CategoryImpuesto, []string{"impuesto", "iva", "tesoreria"}},
		{model.CategoryRemuneracion, []string{"remuneracion", "sueldo", "honorario"}},
		{model.CategoryServicio, []string{"luz", "agua", "telefono", "internet", "electricidad"}},
	}
}

// categorize scans the folded description against the rule table.
func categorize(description string, rules []Rule) model.Category {
	text := normalize.Fold(description)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Category
			}
		}
	}
	return model.CategoryOtros
}
