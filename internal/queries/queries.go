// Package queries holds the warehouse SQL equivalents of the engine's
// reports. They are published for analysts and are never executed by the
// service.
package queries

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
)

// Query names.
const (
	SpendByCategory       = "spend_by_category"
	SpendByRegion         = "spend_by_region"
	MonthlySpendTrend     = "monthly_spend_trend"
	CampaignEffectiveness = "campaign_effectiveness"
	CustomerSegmentation  = "customer_segmentation"
	TopCustomersBySpend   = "top_customers_by_spend"
	CampaignResponseRate  = "campaign_response_rate"
	IncrementalRevenue    = "incremental_revenue"
	CategoryTrendsWindow  = "category_trends_window"
)

var templates = map[string]string{
	SpendByCategory: `
-- Total Spend by Category
SELECT
    category,
    COUNT(*) AS transaction_count,
    ROUND(SUM(amount), 2) AS total_spend,
    ROUND(AVG(amount), 2) AS avg_transaction,
    ROUND(SUM(amount) * 100.0 / (SELECT SUM(amount) FROM transactions), 2) AS spend_percentage
FROM transactions
GROUP BY category
ORDER BY total_spend DESC, category;
`,
	SpendByRegion: `
-- Total Spend by Geographic Region
SELECT
    region,
    COUNT(DISTINCT customer_id) AS unique_customers,
    COUNT(*) AS transaction_count,
    ROUND(SUM(amount), 2) AS total_spend,
    ROUND(AVG(amount), 2) AS avg_transaction,
    ROUND(SUM(amount) / COUNT(DISTINCT customer_id), 2) AS spend_per_customer
FROM transactions
GROUP BY region
ORDER BY total_spend DESC, region;
`,
	MonthlySpendTrend: `
-- Monthly Spend Trend by Category
SELECT
    DATE_TRUNC('month', transaction_date) AS month,
    category,
    COUNT(*) AS transaction_count,
    ROUND(SUM(amount), 2) AS total_spend
FROM transactions
GROUP BY DATE_TRUNC('month', transaction_date), category
ORDER BY month, category;
`,
	CampaignEffectiveness: `
-- Campaign Effectiveness (Pre vs During vs Post)
WITH campaign_periods AS (
    SELECT
        transaction_date,
        customer_id,
        category,
        amount,
        CASE
            WHEN transaction_date < '{{CAMPAIGN_START}}' THEN 'Pre-Campaign'
            WHEN transaction_date BETWEEN '{{CAMPAIGN_START}}' AND '{{CAMPAIGN_END}}' THEN 'During-Campaign'
            ELSE 'Post-Campaign'
        END AS campaign_period
    FROM transactions
)
SELECT
    campaign_period,
    category,
    COUNT(*) AS transaction_count,
    ROUND(SUM(amount), 2) AS total_spend,
    ROUND(AVG(amount), 2) AS avg_transaction,
    COUNT(DISTINCT customer_id) AS unique_customers
FROM campaign_periods
WHERE category IN ({{CATEGORIES}})
GROUP BY campaign_period, category
ORDER BY category, campaign_period;
`,
	CustomerSegmentation: `
-- Customer Segmentation by Spend Behavior
WITH customer_metrics AS (
    SELECT
        customer_id,
        customer_segment,
        COUNT(*) AS transaction_count,
        SUM(amount) AS total_spend,
        AVG(amount) AS avg_transaction,
        COUNT(DISTINCT category) AS categories_used
    FROM transactions
    GROUP BY customer_id, customer_segment
)
SELECT
    customer_segment,
    COUNT(*) AS customer_count,
    ROUND(AVG(total_spend), 2) AS avg_customer_spend,
    ROUND(AVG(transaction_count), 2) AS avg_transactions_per_customer,
    ROUND(AVG(avg_transaction), 2) AS avg_transaction_size,
    ROUND(AVG(categories_used), 2) AS avg_categories_used
FROM customer_metrics
GROUP BY customer_segment
ORDER BY avg_customer_spend DESC;
`,
	TopCustomersBySpend: `
-- Top 20 Customers by Total Spend
SELECT
    t.customer_id,
    c.name,
    c.customer_segment,
    c.region,
    COUNT(*) AS transaction_count,
    ROUND(SUM(t.amount), 2) AS total_spend,
    ROUND(AVG(t.amount), 2) AS avg_transaction
FROM transactions t
JOIN customers c ON t.customer_id = c.customer_id
GROUP BY t.customer_id, c.name, c.customer_segment, c.region
ORDER BY total_spend DESC, t.customer_id
LIMIT 20;
`,
	CampaignResponseRate: `
-- Campaign Response Rate
WITH campaign_customers AS (
    SELECT
        customer_id,
        SUM(CASE WHEN transaction_date BETWEEN '{{CAMPAIGN_START}}' AND '{{CAMPAIGN_END}}'
                 AND category IN ({{CATEGORIES}})
                 THEN amount ELSE 0 END) AS campaign_spend,
        SUM(CASE WHEN transaction_date < '{{CAMPAIGN_START}}'
                 AND category IN ({{CATEGORIES}})
                 THEN amount ELSE 0 END) / {{PRE_MONTHS}}.0 AS avg_monthly_pre_campaign
    FROM transactions
    GROUP BY customer_id
)
SELECT
    COUNT(*) AS total_customers,
    SUM(CASE WHEN campaign_spend > avg_monthly_pre_campaign * {{CAMPAIGN_MONTHS}} * 1.2 THEN 1 ELSE 0 END) AS responded_customers,
    ROUND(100.0 * SUM(CASE WHEN campaign_spend > avg_monthly_pre_campaign * {{CAMPAIGN_MONTHS}} * 1.2 THEN 1 ELSE 0 END) / COUNT(*), 2) AS response_rate_percentage
FROM campaign_customers
WHERE avg_monthly_pre_campaign > 0;
`,
	IncrementalRevenue: `
-- Incremental Revenue from the Campaign
WITH spend_comparison AS (
    SELECT
        SUM(CASE WHEN transaction_date BETWEEN '{{CAMPAIGN_START}}' AND '{{CAMPAIGN_END}}'
                 AND category IN ({{CATEGORIES}})
                 THEN amount ELSE 0 END) AS campaign_period_spend,
        SUM(CASE WHEN transaction_date BETWEEN '{{PRE_START}}' AND '{{PRE_END}}'
                 AND category IN ({{CATEGORIES}})
                 THEN amount ELSE 0 END) * {{CAMPAIGN_MONTHS}} / {{PRE_MONTHS}}.0 AS expected_spend
    FROM transactions
)
SELECT
    ROUND(campaign_period_spend, 2) AS actual_campaign_spend,
    ROUND(expected_spend, 2) AS expected_baseline_spend,
    ROUND(campaign_period_spend - expected_spend, 2) AS incremental_revenue,
    CASE WHEN expected_spend > 0
         THEN ROUND((campaign_period_spend - expected_spend) / expected_spend * 100, 2)
         ELSE 0 END AS revenue_lift_percentage
FROM spend_comparison;
`,
	CategoryTrendsWindow: `
-- Category Spend Trends Using Window Functions
SELECT
    DATE_TRUNC('month', transaction_date) AS month,
    category,
    ROUND(SUM(amount), 2) AS monthly_spend,
    ROUND(AVG(SUM(amount)) OVER (
        PARTITION BY category
        ORDER BY DATE_TRUNC('month', transaction_date)
        ROWS BETWEEN 2 PRECEDING AND CURRENT ROW
    ), 2) AS three_month_moving_avg,
    ROUND(
        (SUM(amount) - LAG(SUM(amount)) OVER (PARTITION BY category ORDER BY DATE_TRUNC('month', transaction_date)))
        / NULLIF(LAG(SUM(amount)) OVER (PARTITION BY category ORDER BY DATE_TRUNC('month', transaction_date)), 0) * 100,
    2) AS month_over_month_growth
FROM transactions
GROUP BY DATE_TRUNC('month', transaction_date), category
ORDER BY category, month;
`,
}

// Render fills the calendar placeholders of every query.
func Render(cal campaign.Calendar) map[string]string {
	cats := make([]string, len(cal.RelevantCategories))
	for i, c := range cal.RelevantCategories {
		cats[i] = "'" + strings.ReplaceAll(string(c), "'", "''") + "'"
	}
	r := strings.NewReplacer(
		"{{CAMPAIGN_START}}", cal.Campaign.Start.String(),
		"{{CAMPAIGN_END}}", cal.Campaign.End.String(),
		"{{PRE_START}}", cal.Pre.Start.String(),
		"{{PRE_END}}", cal.Pre.End.String(),
		"{{PRE_MONTHS}}", strconv.Itoa(cal.Pre.Months()),
		"{{CAMPAIGN_MONTHS}}", strconv.Itoa(cal.Campaign.Months()),
		"{{CATEGORIES}}", strings.Join(cats, ", "),
	)
	out := make(map[string]string, len(templates))
	for name, tmpl := range templates {
		out[name] = strings.TrimSpace(r.Replace(tmpl))
	}
	return out
}

var defaultCatalog = Render(campaign.Default())

// All returns a copy of the catalog for the default campaign.
func All() map[string]string {
	out := make(map[string]string, len(defaultCatalog))
	for k, v := range defaultCatalog {
		out[k] = v
	}
	return out
}

// Get returns one query of the default catalog.
func Get(name string) (string, bool) {
	q, ok := defaultCatalog[name]
	return q, ok
}

// Names returns the query names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(templates))
	for n := range templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
