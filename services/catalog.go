package services

import (
	"strings"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/Anuraagsingh132/collegeconnect/models"
)

// ListingFilter is the user-facing browse/search intent. Empty fields
// mean "no filter"; there are no sentinel strings.
type ListingFilter struct {
	Status     string // defaults to active
	Category   string // optional equality filter
	SearchText string // case-insensitive substring over title/description/category
	SortKey    string // created_at | price | title
	SortDir    string // asc | desc
}

// CatalogPageLimit caps how many rows a single catalog query pulls from
// the database before residual filtering.
const CatalogPageLimit = 100

var catalogSortColumns = []string{"created_at", "price", "title"}

// QueryListings runs the two-tier catalog query: status and category
// equality plus single-column ordering are pushed down to Postgres,
// then the residual free-text match runs on the fetched superset.
func QueryListings(db *gorm.DB, filter ListingFilter) ([]models.Listing, error) {
	status := filter.Status
	if status == "" {
		status = models.ListingStatusActive
	}

	q := db.Model(&models.Listing{}).Preload("Seller").Where("status = ?", status)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var listings []models.Listing
	if err := q.Order(OrderClause(filter.SortKey, filter.SortDir)).
		Limit(CatalogPageLimit).
		Find(&listings).Error; err != nil {
		return nil, err
	}

	return FilterBySearchText(listings, filter.SearchText), nil
}

// OrderClause maps a sort intent onto a whitelisted ORDER BY clause.
// Ties are always broken by id ascending so result order is stable.
func OrderClause(sortKey, sortDir string) string {
	if !slices.Contains(catalogSortColumns, sortKey) {
		sortKey = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		dir = "ASC"
	}
	return sortKey + " " + dir + ", id ASC"
}

// FilterBySearchText keeps listings whose title, description or category
// contains q, case-insensitively. An empty q keeps everything.
func FilterBySearchText(listings []models.Listing, q string) []models.Listing {
	q = strings.TrimSpace(q)
	if q == "" {
		return listings
	}
	matched := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if MatchesSearchText(&l, q) {
			matched = append(matched, l)
		}
	}
	return matched
}

func MatchesSearchText(l *models.Listing, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(l.Title), q) ||
		strings.Contains(strings.ToLower(l.Description), q) ||
		strings.Contains(strings.ToLower(l.Category), q)
}
