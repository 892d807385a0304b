package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Precompiled, whole-word, case-insensitive pattern engine per spec.md
// "Regex vs. tokenizer": keyword rules are implemented as anchored
// alternations compiled once at package init, not re-built per call.
var (
	payrollKeywordRE = regexp.MustCompile(`(?i)\b(ADP|PAYROLL CORP|PAYROLL|PAYCHEX|GUSTO|TRINET|INTUIT PAYROLL|BAMBOOHR)\b`)
	loanKeywordRE     = regexp.MustCompile(`(?i)\b(FINANCE|LOAN|CREDIT|CAPITAL ONE|DISCOVER|CHASE CARD|AMEX)\b`)
	paymentKeywordRE  = regexp.MustCompile(`(?i)\bPAYMENT\b`)
	p2pExclusionRE    = regexp.MustCompile(`(?i)\b(ZELLE|VENMO|CASH APP|PAYPAL)\b`)
	overdraftRE       = regexp.MustCompile(`(?i)\b(OVERDRAFT|OD FEE|RET ITEM FEE|NSF FEE)\b`)
)

const (
	loanCategoryIDPrefix      = "23005"
	payrollCategoryIDPrefix   = "21006"
	overdraftCategoryIDExact  = "22001000"
	payrollCategoryToken      = "Payroll"
	loanCategoryTokenPayment  = "Loan Payment"
	loanCategoryTokenCCPay    = "Credit Card Payment"
)

// weightFromMask maps a 3-bit payroll rule mask to its confidence weight
// by popcount: 3 rules -> 1.0, 2 -> 0.5, 1 -> 0.2, 0 -> 0.0.
func weightFromMask(mask int) float64 {
	switch popcount3(mask) {
	case 3:
		return 1.0
	case 2:
		return 0.5
	case 1:
		return 0.2
	default:
		return 0.0
	}
}

func popcount3(mask int) int {
	n := 0
	for i := 0; i < 3; i++ {
		if mask&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}

func categoryPathContains(path []string, token string) bool {
	for _, c := range path {
		if c == token {
			return true
		}
	}
	return false
}

// classifyPayrollRuleBits returns the category+keyword bits (bits 0-1) for
// an inflow transaction. Bit 2 (cadence) is set later by the post-pass.
func classifyPayrollRuleBits(tx Transaction) int {
	mask := 0
	if categoryPathContains(tx.CategoryPath, payrollCategoryToken) || strings.HasPrefix(tx.CategoryID, payrollCategoryIDPrefix) {
		mask |= payrollBitCategory
	}
	if payrollKeywordRE.MatchString(tx.MerchantName) || payrollKeywordRE.MatchString(tx.Description) {
		mask |= payrollBitKeyword
	}
	return mask
}

// classifyLoanPay applies the three loan/credit-payment match rules in
// priority order; the first match wins.
func classifyLoanPay(tx Transaction) bool {
	if categoryPathContains(tx.CategoryPath, loanCategoryTokenPayment) ||
		categoryPathContains(tx.CategoryPath, loanCategoryTokenCCPay) ||
		strings.HasPrefix(tx.CategoryID, loanCategoryIDPrefix) {
		return true
	}
	if loanKeywordRE.MatchString(tx.Description) {
		return true
	}
	if paymentKeywordRE.MatchString(tx.Description) && !p2pExclusionRE.MatchString(tx.Description) {
		return true
	}
	return false
}

// classifyOverdraft flags overdraft/NSF fee transactions.
func classifyOverdraft(tx Transaction) bool {
	if tx.CategoryID == overdraftCategoryIDExact {
		return true
	}
	return overdraftRE.MatchString(tx.Description)
}

// Tag classifies each raw transaction, applies the cadence post-pass and
// caller overrides, and returns the tagged transactions in input order
// alongside any per-row warnings for malformed rows that were skipped.
func Tag(raw []RawTransaction, overrides Overrides, t0 Day) ([]TaggedTransaction, []Warning) {
	tagged := make([]TaggedTransaction, 0, len(raw))
	var warnings []Warning

	for _, r := range raw {
		tx, err := ParseTransaction(r)
		if err != nil {
			warnings = append(warnings, Warning{TransactionID: r.ID, Reason: err.Error()})
			continue
		}

		tt := TaggedTransaction{Transaction: tx}

		if tx.Amount.IsNegative() {
			tt.PayrollRuleMask = classifyPayrollRuleBits(tx)
		}
		if tx.Amount.IsPositive() {
			tt.IsLoanPay = classifyLoanPay(tx)
		}
		tt.IsODFee = classifyOverdraft(tx)

		tagged = append(tagged, tt)
	}

	detectCadence(tagged, t0)

	for i := range tagged {
		tagged[i].PayrollConfidenceWeight = weightFromMask(tagged[i].PayrollRuleMask)
		tagged[i].IsPayroll = tagged[i].PayrollConfidenceWeight > 0
	}

	applyOverrides(tagged, overrides)

	return tagged, warnings
}

// detectCadence is the post-pass cadence detector: inflows within the
// last 90 days are bucketed into $2-wide bins by absolute amount; buckets
// with >= 3 deposits are tested against cadences {7, 14, 15} in order,
// and the first cadence with >= 2 matching consecutive gaps sets the
// cadence bit on every deposit in the bucket.
func detectCadence(tagged []TaggedTransaction, t0 Day) {
	w90 := newWindow(t0, 90)

	buckets := map[float64][]int{} // bucket key -> indices into tagged
	for i, tx := range tagged {
		if !tx.Amount.IsNegative() {
			continue
		}
		if !w90.contains(tx.Date) {
			continue
		}
		amt, _ := tx.Amount.Abs().Float64()
		key := math.Round(amt/2) * 2
		buckets[key] = append(buckets[key], i)
	}

	for _, idxs := range buckets {
		if len(idxs) < 3 {
			continue
		}
		sort.Slice(idxs, func(a, b int) bool {
			return tagged[idxs[a]].Date < tagged[idxs[b]].Date
		})
		gaps := make([]int64, 0, len(idxs)-1)
		for i := 1; i < len(idxs); i++ {
			gaps = append(gaps, tagged[idxs[i]].Date.Sub(tagged[idxs[i-1]].Date))
		}
		for _, target := range [3]int64{7, 14, 15} {
			matches := 0
			for _, g := range gaps {
				if absInt64(g-target) <= 1 {
					matches++
				}
			}
			if matches >= 2 {
				for _, i := range idxs {
					tagged[i].PayrollRuleMask |= payrollBitCadence
				}
				break
			}
		}
	}
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// applyOverrides replaces is_payroll/is_loanpay with the caller's
// override instruction where present, forcing confidence weight to 1.0
// when payroll is forced true and 0.0 (mask cleared) when forced false.
// Overdraft-fee tagging is never overridable.
func applyOverrides(tagged []TaggedTransaction, overrides Overrides) {
	if len(overrides) == 0 {
		return
	}
	for i := range tagged {
		ov, ok := overrides[tagged[i].ID]
		if !ok {
			continue
		}
		if ov.IsPayroll != nil {
			tagged[i].IsPayroll = *ov.IsPayroll
			if *ov.IsPayroll {
				tagged[i].PayrollConfidenceWeight = 1.0
			} else {
				tagged[i].PayrollConfidenceWeight = 0.0
				tagged[i].PayrollRuleMask = 0
			}
		}
		if ov.IsLoanPay != nil {
			tagged[i].IsLoanPay = *ov.IsLoanPay
		}
	}
}
