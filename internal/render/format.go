package render

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatConfig selects how dates, times and money are shown to clients.
type FormatConfig struct {
	Locale   string `mapstructure:"locale" validate:"required"`
	Timezone string `mapstructure:"timezone" validate:"required"`
	Currency string `mapstructure:"currency" validate:"required,len=3"`
}

func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		Locale:   "pt-BR",
		Timezone: "America/Sao_Paulo",
		Currency: "BRL",
	}
}

type localeLayout struct {
	date        string
	time        string
	symbolSpace bool
}

var localeLayouts = map[string]localeLayout{
	"pt": {date: "02/01/2006", time: "15:04", symbolSpace: true},
	"es": {date: "02/01/2006", time: "15:04", symbolSpace: true},
	"fr": {date: "02/01/2006", time: "15:04", symbolSpace: true},
	"de": {date: "02.01.2006", time: "15:04", symbolSpace: true},
	"en": {date: "01/02/2006", time: "3:04 PM"},
}

var britishLayout = localeLayout{date: "02/01/2006", time: "15:04"}

// Formatter renders instants and amounts for one locale and time zone.
// Output depends only on its configuration and the input value.
type Formatter struct {
	location *time.Location
	printer  *message.Printer
	layout   localeLayout
	symbol   string
}

func NewFormatter(cfg FormatConfig) (*Formatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	base, _ := tag.Base()
	layout, ok := localeLayouts[base.String()]
	if !ok {
		layout = localeLayout{date: "2006-01-02", time: "15:04", symbolSpace: true}
	}
	if region, _ := tag.Region(); base.String() == "en" && region.String() == "GB" {
		layout = britishLayout
	}

	printer := message.NewPrinter(tag)
	code := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	symbol := code
	if unit, err := currency.ParseISO(code); err == nil {
		if sym := strings.TrimSpace(printer.Sprint(currency.Symbol(unit))); sym != "" {
			symbol = sym
		}
	}
	if symbol == code {
		layout.symbolSpace = true
	}

	return &Formatter{
		location: loc,
		printer:  printer,
		layout:   layout,
		symbol:   symbol,
	}, nil
}

func (f *Formatter) Location() *time.Location {
	return f.location
}

func (f *Formatter) Date(t time.Time) string {
	return t.In(f.location).Format(f.layout.date)
}

func (f *Formatter) Time(t time.Time) string {
	return t.In(f.location).Format(f.layout.time)
}

func (f *Formatter) Money(amount float64) string {
	digits := f.printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
	if f.layout.symbolSpace {
		return f.symbol + " " + digits
	}
	return f.symbol + digits
}
