package products

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mdbplc/advisor/common/textutil"
	"github.com/mdbplc/advisor/schema"
	"github.com/mdbplc/advisor/vectordb"
)

// Lister enumerates products straight from the knowledge-base metadata, so
// listings stay in sync with ingested documents.
type Lister struct {
	Store vectordb.VectorStoreProvider
}

func NewLister(store vectordb.VectorStoreProvider) *Lister {
	return &Lister{Store: store}
}

var validSMEProducts = map[string]struct{}{
	"MDB Abiram": {}, "MDB Diptimoyi": {}, "MDB Green": {}, "MDB IT": {},
	"MDB Krishi": {}, "MDB NGO": {}, "MDB Nirbhorota": {}, "MDB Nirman": {},
	"MDB Ogroj": {}, "MDB Orjon": {}, "MDB Praromvik": {}, "MDB Property": {},
	"MDB Start-up": {},
}

var validNRBProducts = []string{
	"MDB Probashi Savings", "MDB NFCD Account", "MDB FC Account",
	"Wage Earner's Development Bond (WEDB)", "US Dollar Investment Bond",
	"US Dollar Premium Bond", "MDB Foreign Remittence Service",
	"MDB Student File Service",
}

var productListPhrases = []string{
	"other savings", "more savings", "other accounts", "what else",
	"more options", "other products", "other loan", "show me more",
	"do you have other", "list all", "different accounts",
}

var chargeKeywords = []string{
	"fee", "charge", "vat", "excise", "maintenance", "closure",
	"a/c", "cheque book", "closing charge", "deposit", "locker charge",
	"certificate of tax", "processing fee", "transaction fee", "settlement fee",
	"reschedule fee", "stamp charge", "penal interest", "sms alert", "npsb-ibft fees",
}

var smeProductRe = regexp.MustCompile(`MDB [A-Z][a-zA-Z()\-]+`)

// islamicSavingsMarkers and friends sort Islamic product titles into
// inferred subgroups.
var (
	islamicSavingsMarkers = []string{"savings", "deposit", "digital", "scheme", "sthaee", "sathi", "super saver", "family support", "e-saver", "snd", "super high performance"}
	islamicLoanMarkers    = []string{"loan", "finance", "bai muajjal", "melk", "nirman", "amar bari"}
	islamicCurrentMarkers = []string{"current account", "corporate payroll package", "abiram", "saalam personal retail"}
)

// ListGroupedByCategory groups product titles by metadata category. Only
// "MDB"-branded titles count as products.
func (l *Lister) ListGroupedByCategory(ctx context.Context) (map[string][]string, error) {
	docs, err := l.Store.GetDocs(ctx, schema.Filter{}, 0)
	if err != nil {
		return nil, fmt.Errorf("enumerate products: %w", err)
	}
	grouped := map[string]map[string]struct{}{}
	for _, doc := range docs {
		title := strings.TrimSpace(doc.Metadata.Title)
		if title == "" || !strings.Contains(title, "MDB") {
			continue
		}
		category := strings.TrimSpace(doc.Metadata.Category)
		if category == "" {
			category = "general"
		}
		category = titleCase(category)
		if grouped[category] == nil {
			grouped[category] = map[string]struct{}{}
		}
		grouped[category][cleanTitle(title)] = struct{}{}
	}
	out := make(map[string][]string, len(grouped))
	for category, set := range grouped {
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		out[category] = names
	}
	return out, nil
}

// ListByCategory returns the sorted product titles of one category.
func (l *Lister) ListByCategory(ctx context.Context, category string) ([]string, error) {
	grouped, err := l.ListGroupedByCategory(ctx)
	if err != nil {
		return nil, err
	}
	return grouped[titleCase(category)], nil
}

// AllProductNames flattens every category into one sorted list.
func (l *Lister) AllProductNames(ctx context.Context) ([]string, error) {
	grouped, err := l.ListGroupedByCategory(ctx)
	if err != nil {
		return nil, err
	}
	set := map[string]struct{}{}
	for _, names := range grouped {
		for _, n := range names {
			set[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// ListIslamicGrouped sorts Islamic products into Savings, Loan and Current
// subgroups by title markers.
func (l *Lister) ListIslamicGrouped(ctx context.Context) (map[string][]string, error) {
	islamic, err := l.ListByCategory(ctx, "Islamic")
	if err != nil {
		return nil, err
	}
	grouped := map[string][]string{"Savings": {}, "Loan": {}, "Current": {}}
	for _, title := range islamic {
		lower := strings.ToLower(title)
		switch {
		case containsAny(lower, islamicSavingsMarkers):
			grouped["Savings"] = append(grouped["Savings"], title)
		case containsAny(lower, islamicLoanMarkers):
			grouped["Loan"] = append(grouped["Loan"], title)
		case containsAny(lower, islamicCurrentMarkers):
			grouped["Current"] = append(grouped["Current"], title)
		}
	}
	return grouped, nil
}

// SMEProductNames scans Loan/SME documents for MDB product mentions and
// keeps only the known SME products.
func (l *Lister) SMEProductNames(ctx context.Context) ([]string, error) {
	docs, err := l.Store.GetDocs(ctx, schema.Filter{Category: "Loan"}, 0)
	if err != nil {
		return nil, fmt.Errorf("sme products: %w", err)
	}
	set := map[string]struct{}{}
	for _, doc := range docs {
		if doc.Metadata.SubCategory != "SME" {
			continue
		}
		for _, match := range smeProductRe.FindAllString(doc.Content, -1) {
			if _, ok := validSMEProducts[match]; ok {
				set[match] = struct{}{}
				continue
			}
			normalized := strings.ReplaceAll(titleCase(match), "Mdb", "MDB")
			if _, ok := validSMEProducts[normalized]; ok {
				set[normalized] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// NRBProductNames returns the known NRB products mentioned anywhere in the
// savings documents.
func (l *Lister) NRBProductNames(ctx context.Context) ([]string, error) {
	docs, err := l.Store.GetDocs(ctx, schema.Filter{Category: "savings"}, 0)
	if err != nil {
		return nil, fmt.Errorf("nrb products: %w", err)
	}
	set := map[string]struct{}{}
	for _, doc := range docs {
		lower := strings.ToLower(doc.Content)
		for _, product := range validNRBProducts {
			if strings.Contains(lower, strings.ToLower(product)) {
				set[product] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

// IsProductListRequest reports whether the message asks for a product
// listing rather than a specific product.
func IsProductListRequest(message string) bool {
	return containsAny(strings.ToLower(message), productListPhrases)
}

// IsChargeQuery reports whether the message is about fees and charges.
func IsChargeQuery(message string) bool {
	return containsAny(strings.ToLower(message), chargeKeywords)
}

// MatchProduct fuzzily resolves a query to one known product name, or "".
func MatchProduct(userQuery string, productList []string) string {
	lowered := make([]string, len(productList))
	for i, p := range productList {
		lowered[i] = strings.ToLower(p)
	}
	match := textutil.CloseMatch(strings.ToLower(userQuery), lowered, 60)
	if match == "" {
		return ""
	}
	for _, p := range productList {
		if strings.ToLower(p) == match {
			return p
		}
	}
	return ""
}

// ExtractMultipleProducts returns every known product mentioned in the
// query, best match first.
func ExtractMultipleProducts(userQuery string, knownProducts []string) []string {
	type scored struct {
		name  string
		score int
	}
	var matched []scored
	queryLower := strings.ToLower(userQuery)
	for _, product := range knownProducts {
		score := textutil.PartialRatio(strings.ToLower(product), queryLower)
		if score >= 85 {
			matched = append(matched, scored{product, score})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })
	out := make([]string, len(matched))
	for i, m := range matched {
		out[i] = m.name
	}
	return out
}

func cleanTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "– Midland Bank PLC.", ""))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
