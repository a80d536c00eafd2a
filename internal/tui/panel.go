package tui

import (
	"context"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// tableRow is one pre-rendered list row. Converting typed rows to cells
// at load time lets the four resource panels share a single table
// renderer and a single console.Panel instantiation.
type tableRow struct {
	id    string
	cells []string
}

func (r tableRow) RowID() string { return r.id }

// panel binds one resource's console controller to its column layout
// and cursor state.
type panel struct {
	res    admin.Resource
	titles []string
	widths []int
	ctl    *console.Panel[tableRow]

	cursor       int
	scrollOffset int
}

// render converts a typed page into the shared row shape.
func render[T console.Row](cols []console.Column[T], pg console.Page[T]) console.Page[tableRow] {
	rows := make([]tableRow, len(pg.Items))
	for i, item := range pg.Items {
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = c.Value(item)
		}
		rows[i] = tableRow{id: item.RowID(), cells: cells}
	}
	return console.Page[tableRow]{
		Items:      rows,
		Page:       pg.Page,
		TotalPages: pg.TotalPages,
		TotalCount: pg.TotalCount,
		HasNext:    pg.HasNext,
		HasPrev:    pg.HasPrev,
	}
}

// loadVia adapts a typed list call to the console loader contract.
func loadVia[T console.Row](list func(context.Context, console.Query) (console.Page[T], error), cols []console.Column[T]) console.LoadFunc[tableRow] {
	return func(ctx context.Context, q console.Query) (console.Page[tableRow], error) {
		pg, err := list(ctx, q)
		if err != nil {
			return console.Page[tableRow]{}, err
		}
		return render(cols, pg), nil
	}
}

func newPanel[T console.Row](res admin.Resource, client admin.Client, bus *console.Bus, pageSize int,
	list func(context.Context, console.Query) (console.Page[T], error), cols []console.Column[T]) *panel {

	titles := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
		widths[i] = c.Width
	}
	return &panel{
		res:    res,
		titles: titles,
		widths: widths,
		ctl: console.NewPanel(string(res), res.DefaultQuery(pageSize),
			loadVia(list, cols), admin.BulkFunc(client, res), res.Actions(), bus),
	}
}

// newPanels builds the four resource panels in display order.
func newPanels(client admin.Client, bus *console.Bus, pageSize int) []*panel {
	return []*panel{
		newPanel(admin.ResourceUsers, client, bus, pageSize, client.ListUsers, admin.UserColumns()),
		newPanel(admin.ResourceTransactions, client, bus, pageSize, client.ListTransactions, admin.TransactionColumns()),
		newPanel(admin.ResourceServices, client, bus, pageSize, client.ListServices, admin.ServiceColumns()),
		newPanel(admin.ResourceSettlements, client, bus, pageSize, client.ListSettlements, admin.SettlementColumns()),
	}
}

// rows returns the current page's rows.
func (p *panel) rows() []tableRow {
	return p.ctl.Fetcher.Page().Items
}

// clampCursor keeps the cursor inside the current page after the data
// underneath it changes.
func (p *panel) clampCursor() {
	n := len(p.rows())
	if n == 0 {
		p.cursor = 0
		p.scrollOffset = 0
		return
	}
	if p.cursor >= n {
		p.cursor = n - 1
	}
	if p.scrollOffset > p.cursor {
		p.scrollOffset = p.cursor
	}
}

// cursorID returns the row ID under the cursor, or "".
func (p *panel) cursorID() string {
	rows := p.rows()
	if p.cursor < 0 || p.cursor >= len(rows) {
		return ""
	}
	return rows[p.cursor].id
}
