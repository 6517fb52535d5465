package listing

// School is one assigned or nearby school discovered on a listing page.
type School struct {
	Name   string   `json:"name"`
	Level  string   `json:"level,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
}

// Result is the best-effort extraction for one listing page. Every field is
// independently optional: null means "not found", never an error. Schools is
// always present, possibly empty.
type Result struct {
	Address        *string        `json:"address"`
	LivingAreaSqft *float64       `json:"livingAreaSqft"`
	LotSizeSqft    *float64       `json:"lotSizeSqft"`
	Facing         *string        `json:"facing"`
	Schools        []School       `json:"schools"`
	Debug          map[string]any `json:"debug,omitempty"`
}

// accumulator threads the partial result through the strategy cascade.
// Each strategy asks need* before doing work and set* to claim a field;
// once claimed, later strategies never override it. The URL-derived
// address is a seed, not a claim: the first page strategy that finds a
// non-empty address replaces it.
type accumulator struct {
	res          *Result
	addressFinal bool
}

func newAccumulator() *accumulator {
	return &accumulator{res: &Result{Schools: []School{}}}
}

func (a *accumulator) seedAddress(addr string) {
	if addr == "" {
		return
	}
	a.res.Address = &addr
}

func (a *accumulator) needAddress() bool { return !a.addressFinal }

func (a *accumulator) setAddress(addr string) {
	if addr == "" {
		return
	}
	a.res.Address = &addr
	a.addressFinal = true
}

func (a *accumulator) needLivingArea() bool { return a.res.LivingAreaSqft == nil }

func (a *accumulator) setLivingArea(v float64) {
	a.res.LivingAreaSqft = &v
}

func (a *accumulator) needLotSize() bool { return a.res.LotSizeSqft == nil }

func (a *accumulator) setLotSize(v float64) {
	a.res.LotSizeSqft = &v
}

func (a *accumulator) needFacing() bool { return a.res.Facing == nil }

func (a *accumulator) setFacing(label string) {
	if label == "" {
		return
	}
	a.res.Facing = &label
}

func (a *accumulator) needSchools() bool { return len(a.res.Schools) == 0 }

func (a *accumulator) setSchools(schools []School) {
	if len(schools) == 0 {
		return
	}
	a.res.Schools = schools
}
