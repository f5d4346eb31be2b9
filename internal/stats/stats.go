// Package stats declares the wallet summary that feeds every scene and
// parses it from YAML or JSON with per-field kind checks.
package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Wrapped is the flat record of one wallet's year.
type Wrapped struct {
	TotalTransactions      float64 `yaml:"totalTransactions" json:"totalTransactions"`
	WalletOverview         float64 `yaml:"walletOverview" json:"walletOverview"`
	TotalSolSpent          float64 `yaml:"totalSolSpent" json:"totalSolSpent"`
	MostInteractedTokens   string  `yaml:"mostInteractedTokens" json:"mostInteractedTokens"`
	MostInteractedNFTs     string  `yaml:"mostInteractedNFTs" json:"mostInteractedNFTs"`
	MostInteractedPrograms string  `yaml:"mostInteractedPrograms" json:"mostInteractedPrograms"`
	MostValuableNFT        string  `yaml:"mostValuableNFT" json:"mostValuableNFT"`
	TotalSolStaked         float64 `yaml:"totalSolStaked" json:"totalSolStaked"`
	NewAddressesInteracted float64 `yaml:"newAddressesInteracted" json:"newAddressesInteracted"`
	SolPriceChange         string  `yaml:"solPriceChange" json:"solPriceChange"`
}

// Defaults is the demo wallet shown when no stats file is given.
func Defaults() Wrapped {
	return Wrapped{
		TotalTransactions:      1000,
		WalletOverview:         50,
		TotalSolSpent:          10,
		MostInteractedTokens:   "USDC, USDT, SOL",
		MostInteractedNFTs:     "DeGods, y00ts, ABC",
		MostInteractedPrograms: "Orca, Raydium, Marinade",
		MostValuableNFT:        "DeGod #1234",
		TotalSolStaked:         1000,
		NewAddressesInteracted: 100,
		SolPriceChange:         "+50%",
	}
}

// Kind is the expected value kind of a field.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
)

func (k Kind) String() string {
	if k == KindString {
		return "string"
	}
	return "number"
}

// Field describes one schema entry.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the exact input shape, in declaration order.
var Schema = []Field{
	{"totalTransactions", KindNumber},
	{"walletOverview", KindNumber},
	{"totalSolSpent", KindNumber},
	{"mostInteractedTokens", KindString},
	{"mostInteractedNFTs", KindString},
	{"mostInteractedPrograms", KindString},
	{"mostValuableNFT", KindString},
	{"totalSolStaked", KindNumber},
	{"newAddressesInteracted", KindNumber},
	{"solPriceChange", KindString},
}

// Validate rejects non-finite numbers.
func (w Wrapped) Validate() error {
	var errs ValidationErrors
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"totalTransactions", w.TotalTransactions},
		{"walletOverview", w.WalletOverview},
		{"totalSolSpent", w.TotalSolSpent},
		{"totalSolStaked", w.TotalSolStaked},
		{"newAddressesInteracted", w.NewAddressesInteracted},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			errs = append(errs, ValidationError{Field: f.name, Problem: "must be a finite number"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Number formats v the way it appears on screen: shortest exact decimal,
// no exponent, no trailing zeros.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidationError names one offending field.
type ValidationError struct {
	Field   string
	Problem string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Problem)
}

// ValidationErrors collects every problem found in one input.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.Error()
	}
	return fmt.Sprintf("invalid stats (%d problems): %s", len(e), strings.Join(parts, "; "))
}

// Fields returns the names of all offending fields.
func (e ValidationErrors) Fields() []string {
	out := make([]string, len(e))
	for i, v := range e {
		out[i] = v.Field
	}
	return out
}
