package compute

import (
	"fmt"
	"time"

	"github.com/greese/dasein-cloud-core-sub001/cloud"
	"github.com/shopspring/decimal"
)

// SpotPrice is one observed spot price.
type SpotPrice struct {
	Timestamp time.Time       `json:"timestamp" yaml:"timestamp"`
	Price     decimal.Decimal `json:"price" yaml:"price"`
}

// SpotPriceHistory is the price series of a product in a data center.
type SpotPriceHistory struct {
	ProductID          string      `json:"product_id" yaml:"product_id"`
	DataCenterID       string      `json:"data_center_id" yaml:"data_center_id"`
	ProductDescription string      `json:"product_description,omitempty" yaml:"product_description,omitempty"`
	Prices             []SpotPrice `json:"prices" yaml:"prices"`
}

// Latest returns the most recent price point.
func (h *SpotPriceHistory) Latest() (SpotPrice, bool) {
	var latest SpotPrice
	found := false
	for _, p := range h.Prices {
		if !found || p.Timestamp.After(latest.Timestamp) {
			latest = p
			found = true
		}
	}
	return latest, found
}

// Average returns the mean price, or zero for an empty history.
func (h *SpotPriceHistory) Average() decimal.Decimal {
	if len(h.Prices) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range h.Prices {
		sum = sum.Add(p.Price)
	}
	return sum.Div(decimal.NewFromInt(int64(len(h.Prices))))
}

// hasPriceIn reports whether any price point falls in [start, end]. A zero
// bound is open.
func (h *SpotPriceHistory) hasPriceIn(start, end time.Time) bool {
	for _, p := range h.Prices {
		if !start.IsZero() && p.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && p.Timestamp.After(end) {
			continue
		}
		return true
	}
	return false
}

// SPHistoryFilterOptions narrows spot price history listings. A history
// filter with no criteria matches nothing.
type SPHistoryFilterOptions struct {
	matchesAny    bool
	dataCenterIDs []string
	productIDs    []string
	start         time.Time
	end           time.Time
}

func NewSPHistoryFilterOptions() *SPHistoryFilterOptions {
	return &SPHistoryFilterOptions{}
}

func NewSPHistoryFilterOptionsMatching(matchesAny bool) *SPHistoryFilterOptions {
	return &SPHistoryFilterOptions{matchesAny: matchesAny}
}

func (f *SPHistoryFilterOptions) MatchingAny() *SPHistoryFilterOptions {
	f.matchesAny = true
	return f
}

func (f *SPHistoryFilterOptions) MatchingAll() *SPHistoryFilterOptions {
	f.matchesAny = false
	return f
}

func (f *SPHistoryFilterOptions) WithDataCenterIDs(ids ...string) *SPHistoryFilterOptions {
	f.dataCenterIDs = append([]string(nil), ids...)
	return f
}

func (f *SPHistoryFilterOptions) WithProductIDs(ids ...string) *SPHistoryFilterOptions {
	f.productIDs = append([]string(nil), ids...)
	return f
}

// Between restricts results to histories with a price point in
// [start, end]. Either bound may be zero.
func (f *SPHistoryFilterOptions) Between(start, end time.Time) *SPHistoryFilterOptions {
	f.start = start
	f.end = end
	return f
}

func (f *SPHistoryFilterOptions) IsMatchesAny() bool        { return f.matchesAny }
func (f *SPHistoryFilterOptions) DataCenterIDs() []string   { return append([]string(nil), f.dataCenterIDs...) }
func (f *SPHistoryFilterOptions) ProductIDs() []string      { return append([]string(nil), f.productIDs...) }
func (f *SPHistoryFilterOptions) StartTimestamp() time.Time { return f.start }
func (f *SPHistoryFilterOptions) EndTimestamp() time.Time   { return f.end }
func (f *SPHistoryFilterOptions) MatchesWhenEmpty() bool    { return false }

func (f *SPHistoryFilterOptions) hasWindow() bool {
	return !f.start.IsZero() || !f.end.IsZero()
}

func (f *SPHistoryFilterOptions) HasCriteria() bool {
	return len(f.dataCenterIDs) > 0 || len(f.productIDs) > 0 || f.hasWindow()
}

func (f *SPHistoryFilterOptions) Validate() error {
	if !f.start.IsZero() && !f.end.IsZero() && f.end.Before(f.start) {
		return invalidOptions("spot price history filter", "end precedes start")
	}
	return nil
}

// Matches reports whether h satisfies the filter.
func (f *SPHistoryFilterOptions) Matches(h *SpotPriceHistory) bool {
	if h == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{len(f.dataCenterIDs) > 0, func() bool { return containsString(f.dataCenterIDs, h.DataCenterID) }},
		check{len(f.productIDs) > 0, func() bool { return containsString(f.productIDs, h.ProductID) }},
		check{f.hasWindow(), func() bool { return h.hasPriceIn(f.start, f.end) }},
	)
}

func (f *SPHistoryFilterOptions) String() string {
	return fmt.Sprintf("SPHistoryFilterOptions{any=%t dcs=%v products=%v start=%s end=%s}",
		f.matchesAny, f.dataCenterIDs, f.productIDs, f.start.Format(time.RFC3339), f.end.Format(time.RFC3339))
}

func FilterSpotPriceHistories(seq cloud.Seq[*SpotPriceHistory], f *SPHistoryFilterOptions) cloud.Seq[*SpotPriceHistory] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// SpotRequestType says whether a spot request is re-submitted after its
// VM is interrupted.
type SpotRequestType string

const (
	SpotOneTime    SpotRequestType = "ONE_TIME"
	SpotPersistent SpotRequestType = "PERSISTENT"
)

// SpotRequestState is the lifecycle state of a spot request.
type SpotRequestState string

const (
	SpotRequestOpen      SpotRequestState = "OPEN"
	SpotRequestActive    SpotRequestState = "ACTIVE"
	SpotRequestClosed    SpotRequestState = "CLOSED"
	SpotRequestCancelled SpotRequestState = "CANCELLED"
	SpotRequestFailed    SpotRequestState = "FAILED"
)

// SpotVirtualMachineRequest is a bid for opportunistic capacity. It may
// expire unfulfilled.
type SpotVirtualMachineRequest struct {
	ID                        string           `json:"id" yaml:"id"`
	Type                      SpotRequestType  `json:"type" yaml:"type"`
	State                     SpotRequestState `json:"state" yaml:"state"`
	MaximumPrice              decimal.Decimal  `json:"maximum_price" yaml:"maximum_price"`
	ProductID                 string           `json:"product_id" yaml:"product_id"`
	MachineImageID            string           `json:"machine_image_id" yaml:"machine_image_id"`
	LaunchGroup               string           `json:"launch_group,omitempty" yaml:"launch_group,omitempty"`
	ValidFrom                 time.Time        `json:"valid_from,omitempty" yaml:"valid_from,omitempty"`
	ValidUntil                time.Time        `json:"valid_until,omitempty" yaml:"valid_until,omitempty"`
	Created                   time.Time        `json:"created" yaml:"created"`
	FulfillmentDataCenterID   string           `json:"fulfillment_data_center_id,omitempty" yaml:"fulfillment_data_center_id,omitempty"`
	FulfilledVirtualMachineID string           `json:"fulfilled_virtual_machine_id,omitempty" yaml:"fulfilled_virtual_machine_id,omitempty"`
}

// IsFulfilled reports whether a VM has been launched for the request.
func (r *SpotVirtualMachineRequest) IsFulfilled() bool {
	return r.FulfilledVirtualMachineID != ""
}

// SpotVirtualMachineRequestFilterOptions narrows spot request listings.
// With no criteria set it matches every request.
type SpotVirtualMachineRequestFilterOptions struct {
	matchesAny  bool
	requestIDs  []string
	launchGroup string
	states      []SpotRequestState
}

func NewSpotVirtualMachineRequestFilterOptions() *SpotVirtualMachineRequestFilterOptions {
	return &SpotVirtualMachineRequestFilterOptions{}
}

func NewSpotVirtualMachineRequestFilterOptionsMatching(matchesAny bool) *SpotVirtualMachineRequestFilterOptions {
	return &SpotVirtualMachineRequestFilterOptions{matchesAny: matchesAny}
}

func (f *SpotVirtualMachineRequestFilterOptions) MatchingAny() *SpotVirtualMachineRequestFilterOptions {
	f.matchesAny = true
	return f
}

func (f *SpotVirtualMachineRequestFilterOptions) MatchingAll() *SpotVirtualMachineRequestFilterOptions {
	f.matchesAny = false
	return f
}

func (f *SpotVirtualMachineRequestFilterOptions) WithRequestIDs(ids ...string) *SpotVirtualMachineRequestFilterOptions {
	f.requestIDs = append([]string(nil), ids...)
	return f
}

func (f *SpotVirtualMachineRequestFilterOptions) InLaunchGroup(group string) *SpotVirtualMachineRequestFilterOptions {
	f.launchGroup = group
	return f
}

func (f *SpotVirtualMachineRequestFilterOptions) WithStates(states ...SpotRequestState) *SpotVirtualMachineRequestFilterOptions {
	f.states = append([]SpotRequestState(nil), states...)
	return f
}

func (f *SpotVirtualMachineRequestFilterOptions) IsMatchesAny() bool     { return f.matchesAny }
func (f *SpotVirtualMachineRequestFilterOptions) RequestIDs() []string   { return append([]string(nil), f.requestIDs...) }
func (f *SpotVirtualMachineRequestFilterOptions) LaunchGroup() string    { return f.launchGroup }
func (f *SpotVirtualMachineRequestFilterOptions) MatchesWhenEmpty() bool { return true }

func (f *SpotVirtualMachineRequestFilterOptions) States() []SpotRequestState {
	return append([]SpotRequestState(nil), f.states...)
}

// Validate rejects empty request IDs and unknown states.
func (f *SpotVirtualMachineRequestFilterOptions) Validate() error {
	for _, id := range f.requestIDs {
		if id == "" {
			return invalidOptions("spot request filter", "empty request id")
		}
	}
	for _, s := range f.states {
		switch s {
		case SpotRequestOpen, SpotRequestActive, SpotRequestClosed, SpotRequestCancelled, SpotRequestFailed:
		default:
			return invalidOptions("spot request filter", fmt.Sprintf("unknown state %q", s))
		}
	}
	return nil
}

func (f *SpotVirtualMachineRequestFilterOptions) HasCriteria() bool {
	return len(f.requestIDs) > 0 || f.launchGroup != "" || len(f.states) > 0
}

// Matches reports whether r satisfies the filter.
func (f *SpotVirtualMachineRequestFilterOptions) Matches(r *SpotVirtualMachineRequest) bool {
	if r == nil {
		return false
	}
	return combine(f.matchesAny, f.MatchesWhenEmpty(),
		check{len(f.requestIDs) > 0, func() bool { return containsString(f.requestIDs, r.ID) }},
		check{f.launchGroup != "", func() bool { return r.LaunchGroup == f.launchGroup }},
		check{len(f.states) > 0, func() bool {
			for _, s := range f.states {
				if s == r.State {
					return true
				}
			}
			return false
		}},
	)
}

func (f *SpotVirtualMachineRequestFilterOptions) String() string {
	return fmt.Sprintf("SpotVirtualMachineRequestFilterOptions{any=%t ids=%v launch_group=%q states=%v}",
		f.matchesAny, f.requestIDs, f.launchGroup, f.states)
}

func FilterSpotVirtualMachineRequests(seq cloud.Seq[*SpotVirtualMachineRequest], f *SpotVirtualMachineRequestFilterOptions) cloud.Seq[*SpotVirtualMachineRequest] {
	if f == nil {
		return seq
	}
	return cloud.Filter(seq, f.Matches)
}

// SpotVirtualMachineRequestCreateOptions describes a spot bid.
type SpotVirtualMachineRequestCreateOptions struct {
	MaximumPrice   decimal.Decimal
	ProductID      string
	MachineImageID string
	Type           SpotRequestType
	LaunchGroup    string
	ValidFrom      time.Time
	ValidUntil     time.Time
	VMCount        int
}

// NewSpotVirtualMachineRequestCreateOptions bids maximumPrice for one
// one-time VM of productID from imageID.
func NewSpotVirtualMachineRequestCreateOptions(productID, imageID string, maximumPrice decimal.Decimal) *SpotVirtualMachineRequestCreateOptions {
	return &SpotVirtualMachineRequestCreateOptions{
		MaximumPrice:   maximumPrice,
		ProductID:      productID,
		MachineImageID: imageID,
		Type:           SpotOneTime,
		VMCount:        1,
	}
}

func (o *SpotVirtualMachineRequestCreateOptions) Persistent() *SpotVirtualMachineRequestCreateOptions {
	o.Type = SpotPersistent
	return o
}

func (o *SpotVirtualMachineRequestCreateOptions) InLaunchGroup(group string) *SpotVirtualMachineRequestCreateOptions {
	o.LaunchGroup = group
	return o
}

func (o *SpotVirtualMachineRequestCreateOptions) ValidBetween(from, until time.Time) *SpotVirtualMachineRequestCreateOptions {
	o.ValidFrom = from
	o.ValidUntil = until
	return o
}

func (o *SpotVirtualMachineRequestCreateOptions) WithVMCount(n int) *SpotVirtualMachineRequestCreateOptions {
	o.VMCount = n
	return o
}

func (o *SpotVirtualMachineRequestCreateOptions) Validate() error {
	if o.ProductID == "" || o.MachineImageID == "" {
		return invalidOptions("spot request", "product and machine image are required")
	}
	if !o.MaximumPrice.IsPositive() {
		return invalidOptions("spot request", fmt.Sprintf("maximum price must be positive, got %s", o.MaximumPrice))
	}
	if o.VMCount < 1 {
		return invalidOptions("spot request", "vm count must be at least 1")
	}
	if !o.ValidFrom.IsZero() && !o.ValidUntil.IsZero() && !o.ValidUntil.After(o.ValidFrom) {
		return invalidOptions("spot request", "validity window is empty or inverted")
	}
	switch o.Type {
	case SpotOneTime, SpotPersistent:
	default:
		return invalidOptions("spot request", fmt.Sprintf("unknown request type %q", o.Type))
	}
	return nil
}
