package sahod

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money formats an amount in the configured currency for messages.
func (e *Engine) money(d decimal.Decimal) string {
	return printer.Sprint(currency.Symbol(e.config.Currency.Amount(d.Round(2).InexactFloat64())))
}
