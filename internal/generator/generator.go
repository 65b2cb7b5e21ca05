// Package generator produces a synthetic card-transaction dataset shaped
// like the production extract: weighted categories, per-category amount
// distributions and a response boost on the campaign's categories inside
// the campaign window.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"cloud.google.com/go/civil"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// Profile is the amount distribution and selection weight of a category.
// A profile without merchants draws company names.
type Profile struct {
	Category  domain.Category
	Mean      float64
	Std       float64
	Weight    float64
	Merchants []string
}

// DefaultProfiles mirrors the spend mix of the reference dataset.
var DefaultProfiles = []Profile{
	{domain.CategoryTravel, 300, 200, 0.15, []string{"Delta Airlines", "Marriott Hotels", "Hilton", "United Airlines", "Airbnb", "Expedia"}},
	{domain.CategoryDining, 75, 40, 0.20, []string{"The Gourmet Kitchen", "Starbucks", "Olive Garden", "Cheesecake Factory", "Local Bistro"}},
	{domain.CategoryRetail, 120, 80, 0.25, []string{"Amazon", "Target", "Walmart", "Best Buy", "Macy's", "Apple Store"}},
	{domain.CategoryGroceries, 150, 60, 0.20, []string{"Whole Foods", "Trader Joe's", "Safeway", "Kroger", "Costco"}},
	{domain.CategoryEntertainment, 60, 30, 0.10, []string{"AMC Theaters", "Netflix", "Spotify", "Live Nation", "Disney+"}},
	{domain.CategoryGas, 50, 20, 0.08, []string{"Shell", "Chevron", "BP", "Exxon", "Mobil"}},
	{domain.CategoryOther, 80, 50, 0.02, []string{"CVS Pharmacy", "Walgreens", "Home Depot", "Lowe's"}},
}

// Config controls a generation run.
type Config struct {
	Seed      uint64
	Customers int
	Start     civil.Date
	End       civil.Date
	Calendar  campaign.Calendar
	Profiles  []Profile

	// ResponseRate is the chance that a campaign-window transaction in a
	// relevant category is boosted.
	ResponseRate float64
	BoostMin     float64
	BoostMax     float64
	MinAmount    float64
}

// DefaultConfig generates 5000 customers over the default campaign year.
func DefaultConfig() Config {
	cal := campaign.Default()
	return Config{
		Seed:         42,
		Customers:    5000,
		Start:        cal.Pre.Start,
		End:          cal.Post.End,
		Calendar:     cal,
		Profiles:     DefaultProfiles,
		ResponseRate: 0.40,
		BoostMin:     1.25,
		BoostMax:     1.60,
		MinAmount:    5,
	}
}

var creditLimits = []int64{5000, 10000, 15000, 25000, 50000}

// Generator is a seeded source of customers and transactions. The same
// Config always yields the same dataset.
type Generator struct {
	cfg         Config
	rng         *rand.Rand
	faker       *gofakeit.Faker
	totalWeight float64
}

// New validates cfg and returns a generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Customers <= 0 {
		return nil, fmt.Errorf("generator.New: customers must be positive, got %d", cfg.Customers)
	}
	if !cfg.Start.IsValid() || !cfg.End.IsValid() || cfg.End.Before(cfg.Start) {
		return nil, fmt.Errorf("generator.New: invalid range %s..%s", cfg.Start, cfg.End)
	}
	if len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("generator.New: no category profiles")
	}
	if cfg.BoostMax < cfg.BoostMin {
		return nil, fmt.Errorf("generator.New: boost range %v..%v is reversed", cfg.BoostMin, cfg.BoostMax)
	}
	g := &Generator{
		cfg:   cfg,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		faker: gofakeit.New(fakerSeed(cfg.Seed)),
	}
	for _, p := range cfg.Profiles {
		g.totalWeight += p.Weight
	}
	if g.totalWeight <= 0 {
		return nil, fmt.Errorf("generator.New: category weights sum to %v", g.totalWeight)
	}
	return g, nil
}

// Generate returns the customers and their transactions.
func (g *Generator) Generate() ([]domain.Customer, []domain.Transaction) {
	customers := g.customers()
	return customers, g.transactions(customers)
}

func (g *Generator) customers() []domain.Customer {
	out := make([]domain.Customer, 0, g.cfg.Customers)
	for i := 0; i < g.cfg.Customers; i++ {
		out = append(out, domain.Customer{
			CustomerID:  fmt.Sprintf("CUST%06d", i+1),
			Name:        g.faker.Name(),
			Email:       g.faker.Email(),
			Region:      pick(g.rng, domain.Regions),
			MemberSince: g.memberSince(),
			CreditLimit: decimal.NewFromInt(pick(g.rng, creditLimits)),
			Segment:     pick(g.rng, domain.Segments),
		})
	}
	return out
}

// memberSince is between five years and one year before the range start.
func (g *Generator) memberSince() civil.Date {
	latest := g.cfg.Start.AddDays(-365)
	earliest := g.cfg.Start.AddDays(-5 * 365)
	span := latest.DaysSince(earliest)
	return earliest.AddDays(g.rng.IntN(span + 1))
}

func (g *Generator) transactions(customers []domain.Customer) []domain.Transaction {
	var out []domain.Transaction
	seq := 0
	for _, c := range customers {
		perMonth := 4 + g.rng.IntN(12) // 4..15
		for month := firstOfMonth(g.cfg.Start); !month.After(g.cfg.End); month = nextMonth(month) {
			n := perMonth - 2 + g.rng.IntN(6) // perMonth-2 .. perMonth+3
			days := daysIn(month)
			for k := 0; k < n; k++ {
				date := month.AddDays(g.rng.IntN(days))
				if date.After(g.cfg.End) {
					break
				}
				if date.Before(g.cfg.Start) {
					continue
				}
				p := g.category()
				seq++
				out = append(out, domain.Transaction{
					TransactionID: fmt.Sprintf("TXN%08d", seq),
					CustomerID:    c.CustomerID,
					Date:          date,
					Category:      p.Category,
					Amount:        g.amount(p, date),
					Region:        c.Region,
					Segment:       c.Segment,
					Merchant:      g.merchant(p),
				})
			}
		}
	}
	return out
}

func (g *Generator) category() Profile {
	x := g.rng.Float64() * g.totalWeight
	for _, p := range g.cfg.Profiles {
		if x < p.Weight {
			return p
		}
		x -= p.Weight
	}
	return g.cfg.Profiles[len(g.cfg.Profiles)-1]
}

// amount draws from the category's normal distribution, boosted for
// responding customers inside the campaign window, floored at MinAmount
// and rounded to cents.
func (g *Generator) amount(p Profile, date civil.Date) decimal.Decimal {
	boost := 1.0
	if g.cfg.Calendar.Campaign.Contains(date) && g.rng.Float64() < g.cfg.ResponseRate && g.cfg.Calendar.Relevant(p.Category) {
		boost = g.cfg.BoostMin + g.rng.Float64()*(g.cfg.BoostMax-g.cfg.BoostMin)
	}
	v := math.Abs(g.rng.NormFloat64()*p.Std + p.Mean*boost)
	v = math.Max(g.cfg.MinAmount, v)
	return decimal.NewFromFloat(v).Round(2)
}

func (g *Generator) merchant(p Profile) string {
	if len(p.Merchants) == 0 {
		return g.faker.Company()
	}
	return pick(g.rng, p.Merchants)
}

// fakerSeed maps seed to a non-zero value; gofakeit treats zero as a
// request for a random seed.
func fakerSeed(seed uint64) uint64 {
	if s := seed + 1; s != 0 {
		return s
	}
	return 1
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}

func firstOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

func nextMonth(d civil.Date) civil.Date {
	return civil.DateOf(time.Date(d.Year, d.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

func daysIn(month civil.Date) int {
	return time.Date(month.Year, month.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
