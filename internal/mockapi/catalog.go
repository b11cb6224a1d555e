package mockapi

import (
	"hash/fnv"
	"math"
	"time"

	"github.com/saherflow/saher/internal/api"
)

// Catalog is the fixed device and hierarchy inventory the mock serves.
type Catalog struct {
	Roots   []api.HierarchyNode
	Devices []api.Device
}

// DefaultCatalog returns two regions, three sites and five meters.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Roots: []api.HierarchyNode{
			{
				ID: "north", Name: "North Field", Level: "region",
				Children: []api.HierarchyNode{
					{ID: "north-a", Name: "Site A", Level: "site", ParentID: "north"},
					{ID: "north-b", Name: "Site B", Level: "site", ParentID: "north"},
				},
			},
			{
				ID: "south", Name: "South Field", Level: "region",
				Children: []api.HierarchyNode{
					{ID: "south-a", Name: "Site C", Level: "site", ParentID: "south"},
				},
			},
		},
		Devices: []api.Device{
			{ID: "mpfm-101", Name: "MPFM 101", Site: "Site A", HierarchyID: "north-a", Status: "online"},
			{ID: "mpfm-102", Name: "MPFM 102", Site: "Site A", HierarchyID: "north-a", Status: "online"},
			{ID: "mpfm-201", Name: "MPFM 201", Site: "Site B", HierarchyID: "north-b", Status: "online"},
			{ID: "mpfm-301", Name: "MPFM 301", Site: "Site C", HierarchyID: "south-a", Status: "offline"},
			{ID: "mpfm-302", Name: "MPFM 302", Site: "Site C", HierarchyID: "south-a", Status: "online"},
		},
	}
}

// windowFor returns the sample count and spacing for a range.
func windowFor(tr api.TimeRange) (int, time.Duration) {
	switch tr {
	case api.RangeWeek:
		return 28, 6 * time.Hour
	case api.RangeMonth:
		return 30, 24 * time.Hour
	case api.RangeYear:
		return 52, 7 * 24 * time.Hour
	default:
		return 24, time.Hour
	}
}

func seed(id string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum32()%1000) / 1000
}

// series generates a smooth, deterministic series around base.
func series(id string, phase string, base float64, tr api.TimeRange, now time.Time) []api.SeriesPoint {
	n, step := windowFor(tr)
	s := seed(id + "/" + phase)
	end := now.Truncate(step)
	points := make([]api.SeriesPoint, n)
	for i := 0; i < n; i++ {
		wave := math.Sin(float64(i)/3+s*2*math.Pi)*0.15 + math.Cos(float64(i)/7+s*math.Pi)*0.05
		points[i] = api.SeriesPoint{
			Timestamp: end.Add(-time.Duration(n-1-i) * step),
			Value:     math.Round(base*(1+wave)*10) / 10,
		}
	}
	return points
}

func (c *Catalog) device(id string) (api.Device, bool) {
	for _, d := range c.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return api.Device{}, false
}

// DeviceChart generates chart data for a device, or false if unknown.
func (c *Catalog) DeviceChart(id string, tr api.TimeRange, now time.Time) (*api.DeviceChartData, bool) {
	if _, ok := c.device(id); !ok {
		return nil, false
	}
	s := seed(id)
	gvf := math.Round(40 + s*50)
	wlr := math.Round(20 + (1-s)*70)
	return &api.DeviceChartData{
		DeviceID:  id,
		TimeRange: tr,
		FlowRate: api.FlowSeries{
			Unit:  "m³/d",
			Oil:   series(id, "oil", 800+s*400, tr, now),
			Gas:   series(id, "gas", 1500+s*900, tr, now),
			Water: series(id, "water", 300+s*250, tr, now),
		},
		GVF: &gvf,
		WLR: &wlr,
	}, true
}

// HierarchyChart aggregates every device under the node.
func (c *Catalog) HierarchyChart(id string, tr api.TimeRange, now time.Time) (*api.HierarchyChartData, bool) {
	node, ok := findNode(c.Roots, id)
	if !ok {
		return nil, false
	}

	out := &api.HierarchyChartData{
		HierarchyID: node.ID,
		Name:        node.Name,
		TimeRange:   tr,
		FlowRate:    api.FlowSeries{Unit: "m³/d"},
	}

	var gvfSum, wlrSum float64
	for _, d := range c.devicesUnder(node) {
		dc, _ := c.DeviceChart(d.ID, tr, now)
		out.DeviceCount++
		out.FlowRate.Oil = addSeries(out.FlowRate.Oil, dc.FlowRate.Oil)
		out.FlowRate.Gas = addSeries(out.FlowRate.Gas, dc.FlowRate.Gas)
		out.FlowRate.Water = addSeries(out.FlowRate.Water, dc.FlowRate.Water)
		gvfSum += *dc.GVF
		wlrSum += *dc.WLR
	}
	if out.DeviceCount > 0 {
		gvf := math.Round(gvfSum / float64(out.DeviceCount))
		wlr := math.Round(wlrSum / float64(out.DeviceCount))
		out.GVF, out.WLR = &gvf, &wlr
	}

	// Regions break the node down by its children; a leaf reports itself.
	children := node.Children
	if len(children) == 0 {
		children = []api.HierarchyNode{node}
	}
	for _, child := range children {
		var total float64
		for _, d := range c.devicesUnder(child) {
			dc, _ := c.DeviceChart(d.ID, tr, now)
			for _, p := range dc.FlowRate.Oil {
				total += p.Value
			}
		}
		out.Regions = append(out.Regions, api.RegionTotal{Name: child.Name, Production: math.Round(total)})
	}
	return out, true
}

func (c *Catalog) devicesUnder(node api.HierarchyNode) []api.Device {
	ids := map[string]bool{}
	var walk func(n api.HierarchyNode)
	walk = func(n api.HierarchyNode) {
		ids[n.ID] = true
		for _, ch := range n.Children {
			walk(ch)
		}
	}
	walk(node)

	var out []api.Device
	for _, d := range c.Devices {
		if ids[d.HierarchyID] {
			out = append(out, d)
		}
	}
	return out
}

func findNode(nodes []api.HierarchyNode, id string) (api.HierarchyNode, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
		if found, ok := findNode(n.Children, id); ok {
			return found, true
		}
	}
	return api.HierarchyNode{}, false
}

// addSeries sums b into a point by point; a nil a takes b's timestamps.
func addSeries(a, b []api.SeriesPoint) []api.SeriesPoint {
	if a == nil {
		out := make([]api.SeriesPoint, len(b))
		copy(out, b)
		return out
	}
	for i := range a {
		if i < len(b) {
			a[i].Value += b[i].Value
		}
	}
	return a
}
