package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"yathra/billing"
	dbt "yathra/db/db"
)

// Renderer consumes the ordered drawing commands of a report. The production
// implementation writes a PDF; tests record the commands instead.
type Renderer interface {
	AddPage()
	// Text draws a string at the given position. style is "" or "B".
	Text(x, y, size float64, style, text string)
	Line(x1, y1, x2, y2 float64)
}

// Page geometry in points, A4.
const (
	pageLeft    = 50.0
	pageRight   = 545.0
	pageTop     = 50.0
	contentEndY = 700.0
	rowHeight   = 20.0
)

// Table column x offsets: Date, Vehicle, Driver, Distance, Rate, Notes.
var columnX = [6]float64{pageLeft, 130, 230, 330, 400, 470}

var columnTitles = [6]string{"Date", "Vehicle", "Driver", "Distance", "Rate", "Notes"}

// Params selects the contract and optional inclusive date range to bill.
type Params struct {
	Tenant     uuid.UUID
	ContractID uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// Builder assembles contract billing reports from the record store.
type Builder struct {
	store dbt.Store
	now   func() time.Time
}

func NewBuilder(store dbt.Store) *Builder {
	return &Builder{
		store: store,
		now:   time.Now,
	}
}

// Build fetches the contract and its trips and drives the renderer. A missing
// or foreign contract aborts with ErrNotFound; a contract with no matching
// trips still yields a report with zero totals.
func (b *Builder) Build(ctx context.Context, p Params, r Renderer) error {
	contract, err := b.store.GetContract(p.Tenant, p.ContractID)
	if err != nil {
		return err
	}
	// loaders cache per build so a report never sees stale references
	loader := dbt.NewRefLoader(b.store)

	contracts := []dbt.Contract{*contract}
	if err := loader.HydrateContracts(ctx, contracts); err != nil {
		return fmt.Errorf("failed to hydrate contract: %w", err)
	}
	contract = &contracts[0]

	trips, err := b.store.ListContractTrips(p.Tenant, p.ContractID, p.StartDate, p.EndDate)
	if err != nil {
		return fmt.Errorf("failed to list contract trips: %w", err)
	}
	if err := loader.HydrateTrips(ctx, trips); err != nil {
		return fmt.Errorf("failed to hydrate trips: %w", err)
	}

	lines := make([]billing.TripLine, 0, len(trips))
	for _, trip := range trips {
		distance := 0.0
		if trip.Distance != nil {
			distance = *trip.Distance
		}
		lines = append(lines, billing.TripLine{TripRate: trip.TripRate, Distance: distance})
	}
	summary := billing.Summarize(lines)

	b.render(r, contract, trips, summary, p)
	return nil
}

func (b *Builder) render(r Renderer, contract *dbt.Contract, trips []dbt.Trip, summary billing.Summary, p Params) {
	now := b.now()

	r.AddPage()
	y := pageTop

	// header
	r.Text(pageLeft, y, 18, "B", "Contract Billing Report")
	y += 26
	r.Text(pageLeft, y, 10, "", fmt.Sprintf("Generated on %s", now.Format("02 Jan 2006 15:04")))
	if p.StartDate != nil || p.EndDate != nil {
		y += 14
		r.Text(pageLeft, y, 10, "", fmt.Sprintf("Period: %s to %s", formatOptionalDate(p.StartDate), formatOptionalDate(p.EndDate)))
	}
	y += 20
	r.Line(pageLeft, y, pageRight, y)
	y += 16

	// contract details
	r.Text(pageLeft, y, 12, "B", "Contract Details")
	y += 18
	vehicleLabel := "-"
	if contract.Vehicle != nil {
		vehicleLabel = fmt.Sprintf("%s (%s)", contract.Vehicle.VehicleNumber, contract.Vehicle.Model)
	}
	status := billing.ClassifyContractStatus(contract.ContractEndDate, now)
	details := []string{
		fmt.Sprintf("Contract: %s", contract.ContractName),
		fmt.Sprintf("Vehicle: %s", vehicleLabel),
		fmt.Sprintf("Monthly Rate: %.2f", contract.Rate),
		fmt.Sprintf("Average Distance: %.2f km", contract.AverageDistance),
		fmt.Sprintf("End Date: %s (%s)", contract.ContractEndDate.Format("02 Jan 2006"), status),
	}
	for _, line := range details {
		r.Text(pageLeft, y, 10, "", line)
		y += 14
	}
	y += 8

	// summary block
	r.Text(pageLeft, y, 12, "B", "Summary")
	y += 18
	summaryLines := []string{
		fmt.Sprintf("Trips: %d", summary.Count),
		fmt.Sprintf("Total Amount: %.2f", summary.TotalAmount),
		fmt.Sprintf("Total Distance: %.2f km", summary.TotalDistance),
		fmt.Sprintf("Average Distance: %.2f km", summary.AvgDistance),
	}
	for _, line := range summaryLines {
		r.Text(pageLeft, y, 10, "", line)
		y += 14
	}
	y += 10

	// trip table
	y = b.renderTableHeader(r, y)
	for _, trip := range trips {
		if y > contentEndY {
			r.AddPage()
			y = b.renderTableHeader(r, pageTop)
		}
		y = b.renderTripRow(r, y, trip)
	}

	// footer
	if y > contentEndY {
		r.AddPage()
		y = pageTop
	}
	y += 20
	r.Line(pageLeft, y, pageRight, y)
	y += 14
	r.Text(pageLeft, y, 8, "", fmt.Sprintf("Report generated at %s", now.Format(time.RFC3339)))
}

func (b *Builder) renderTableHeader(r Renderer, y float64) float64 {
	for i, title := range columnTitles {
		r.Text(columnX[i], y, 10, "B", title)
	}
	y += 6
	r.Line(pageLeft, y+8, pageRight, y+8)
	return y + rowHeight
}

func (b *Builder) renderTripRow(r Renderer, y float64, trip dbt.Trip) float64 {
	vehicle := "-"
	if trip.Vehicle != nil {
		vehicle = trip.Vehicle.VehicleNumber
	}
	distance := "-"
	if trip.Distance != nil {
		distance = fmt.Sprintf("%.1f km", *trip.Distance)
	}
	notes := trip.Notes
	if r := []rune(notes); len(r) > 18 {
		notes = string(r[:15]) + "..."
	}

	cells := [6]string{
		trip.TripDate.Format("02 Jan 2006"),
		vehicle,
		trip.DriverName,
		distance,
		fmt.Sprintf("%.2f", trip.TripRate),
		notes,
	}
	for i, cell := range cells {
		r.Text(columnX[i], y, 9, "", cell)
	}
	return y + rowHeight
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02 Jan 2006")
}
