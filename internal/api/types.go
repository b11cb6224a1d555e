package api

import (
	"fmt"
	"time"
)

// TimeRange is the query window applied to every chart fetch.
type TimeRange string

const (
	RangeDay   TimeRange = "day"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

// TimeRanges lists the ranges in toggle order.
var TimeRanges = []TimeRange{RangeDay, RangeWeek, RangeMonth, RangeYear}

// ParseTimeRange converts a wire string to a TimeRange.
func ParseTimeRange(s string) (TimeRange, error) {
	for _, tr := range TimeRanges {
		if string(tr) == s {
			return tr, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// Next cycles to the following range, wrapping after year.
func (tr TimeRange) Next() TimeRange {
	for i, r := range TimeRanges {
		if r == tr {
			return TimeRanges[(i+1)%len(TimeRanges)]
		}
	}
	return RangeDay
}

// Label returns a short display label.
func (tr TimeRange) Label() string {
	switch tr {
	case RangeDay:
		return "24h"
	case RangeWeek:
		return "7d"
	case RangeMonth:
		return "30d"
	case RangeYear:
		return "1y"
	default:
		return string(tr)
	}
}

// Envelope is the response wrapper every API endpoint returns.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Device is a single monitored unit, typically a multiphase flow meter.
type Device struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Site        string `json:"site,omitempty"`
	HierarchyID string `json:"hierarchyId,omitempty"`
	Status      string `json:"status,omitempty"`
}

// HierarchyNode groups devices (region, site, area).
type HierarchyNode struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Level    string          `json:"level,omitempty"`
	ParentID string          `json:"parentId,omitempty"`
	Children []HierarchyNode `json:"children,omitempty"`
}

// SeriesPoint is one sample of a time series.
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// FlowSeries holds the three phase flow rates over the requested window.
type FlowSeries struct {
	Unit  string        `json:"unit"`
	Oil   []SeriesPoint `json:"oil"`
	Gas   []SeriesPoint `json:"gas"`
	Water []SeriesPoint `json:"water"`
}

// Empty reports whether no phase has samples.
func (f FlowSeries) Empty() bool {
	return len(f.Oil) == 0 && len(f.Gas) == 0 && len(f.Water) == 0
}

// RegionTotal is a production total for one region of a hierarchy.
type RegionTotal struct {
	Name       string  `json:"name"`
	Production float64 `json:"production"`
}

// DeviceChartData is the chart payload for a single device.
type DeviceChartData struct {
	DeviceID  string     `json:"deviceId"`
	TimeRange TimeRange  `json:"timeRange"`
	FlowRate  FlowSeries `json:"flowRate"`
	GVF       *float64   `json:"gvf,omitempty"`
	WLR       *float64   `json:"wlr,omitempty"`
}

// HierarchyChartData is the aggregated chart payload for a hierarchy node.
type HierarchyChartData struct {
	HierarchyID string        `json:"hierarchyId"`
	Name        string        `json:"name"`
	TimeRange   TimeRange     `json:"timeRange"`
	DeviceCount int           `json:"deviceCount"`
	FlowRate    FlowSeries    `json:"flowRate"`
	Regions     []RegionTotal `json:"regions,omitempty"`
	GVF         *float64      `json:"gvf,omitempty"`
	WLR         *float64      `json:"wlr,omitempty"`
}

// Values extracts the sample values of a series.
func Values(points []SeriesPoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
