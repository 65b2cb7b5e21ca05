// Package renderer turns analytics reports into markdown documents and
// renders them for the terminal.
package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	md "github.com/nao1215/markdown"
)

// DefaultTopCustomers is the number of customers listed by ReportMarkdown.
const DefaultTopCustomers = 10

// ReportMarkdown builds the campaign performance report for e.
func ReportMarkdown(e *analytics.Engine, topCustomers int) string {
	if topCustomers <= 0 {
		topCustomers = DefaultTopCustomers
	}
	cal := e.Calendar()

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Campaign Performance Report")
	doc.PlainText(fmt.Sprintf("Campaign window %s, compared with %s.", cal.Campaign, cal.Pre))

	ov := e.Overview()
	doc.H2("Overview")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Transactions", strconv.Itoa(ov.TotalTransactions)},
			{"Total spend", FormatMoney(ov.TotalSpend)},
			{"Average transaction", FormatMoney(ov.AvgTransactionSize)},
			{"Customers", strconv.Itoa(ov.UniqueCustomers)},
			{"Campaign revenue", FormatMoney(ov.CampaignRevenue)},
			{"Incremental revenue", FormatMoney(ov.IncrementalRevenue)},
			{"ROI", FormatSignedPercent(ov.ROIPercentage)},
		},
	})

	inc := e.IncrementalRevenue()
	resp := e.CampaignResponse()
	doc.H2("Incremental Revenue")
	doc.Table(md.TableSet{
		Header: []string{"Expected baseline", "Actual", "Incremental", "Lift", "Response rate"},
		Rows: [][]string{{
			FormatMoney(inc.ExpectedBaselineSpend),
			FormatMoney(inc.ActualCampaignSpend),
			FormatMoney(inc.IncrementalRevenue),
			FormatSignedPercent(inc.RevenueLiftPercentage),
			fmt.Sprintf("%s (%d of %d)", FormatPercent(resp.ResponseRatePercentage), resp.RespondedCustomers, resp.TotalCustomers),
		}},
	})

	doc.H2("Spend by Category")
	categories := md.TableSet{Header: []string{"Category", "Transactions", "Spend", "Average", "Share"}}
	for _, c := range e.SpendByCategory() {
		categories.Rows = append(categories.Rows, []string{
			c.Category,
			strconv.Itoa(c.TransactionCount),
			FormatMoney(c.TotalSpend),
			FormatMoney(c.AvgTransaction),
			FormatPercent(c.SpendPercentage),
		})
	}
	doc.Table(categories)

	doc.H2("Campaign Effectiveness")
	effectiveness := md.TableSet{Header: []string{"Period", "Dates", "Category", "Transactions", "Spend", "Customers", "Uplift"}}
	for _, p := range e.CampaignEffectiveness() {
		uplift := ""
		if p.UpliftPercentage != 0 {
			uplift = FormatSignedPercent(p.UpliftPercentage)
		}
		effectiveness.Rows = append(effectiveness.Rows, []string{
			p.CampaignPeriod,
			cal.Window(campaign.Period(p.CampaignPeriod)).String(),
			p.Category,
			strconv.Itoa(p.TransactionCount),
			FormatMoney(p.TotalSpend),
			strconv.Itoa(p.UniqueCustomers),
			uplift,
		})
	}
	doc.Table(effectiveness)

	doc.H2("Recommendations")
	var recs []string
	for _, r := range e.Recommendations() {
		recs = append(recs, fmt.Sprintf("%s: %s uplift, %s", r.Segment, FormatSignedPercent(r.UpliftPercentage), r.Recommendation))
	}
	if len(recs) == 0 {
		doc.PlainText("No segment spent in the campaign categories.")
	} else {
		doc.BulletList(recs...)
	}

	doc.H2("Top Customers")
	top := md.TableSet{Header: []string{"Customer", "Name", "Segment", "Region", "Transactions", "Spend"}}
	for _, c := range e.TopCustomers(topCustomers) {
		top.Rows = append(top.Rows, []string{
			c.CustomerID,
			c.Name,
			c.CustomerSegment,
			c.Region,
			strconv.Itoa(c.TransactionCount),
			FormatMoney(c.TotalSpend),
		})
	}
	doc.Table(top)

	return doc.String()
}

// Terminal renders markdown for a terminal using the named glamour style
// ("dark", "light", "notty", ...).
func Terminal(markdown, style string) (string, error) {
	out, err := glamour.Render(markdown, style)
	if err != nil {
		return "", fmt.Errorf("Terminal: %w", err)
	}
	return out, nil
}
