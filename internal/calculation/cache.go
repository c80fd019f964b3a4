package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rgehrsitz/rothcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// ResultCache memoizes projection results. Projections are pure, so a
// result can be reused as long as the key covers every input: all profile
// scalars, the conversion amount for every simulated (year index, age), and
// the reference tables.
type ResultCache struct {
	store        *cache.Cache
	fingerprints sync.Map // *domain.TaxYearTables -> string
	hits         atomic.Uint64
	misses       atomic.Uint64
}

// NewResultCache creates a cache whose entries expire after ttl
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{store: cache.New(ttl, 2*ttl)}
}

// Get returns a copy of the cached result for key
func (c *ResultCache) Get(key string) (*domain.ProjectionResult, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return copyResult(v.(*domain.ProjectionResult)), true
}

// Set stores a copy of res under key
func (c *ResultCache) Set(key string, res *domain.ProjectionResult) {
	c.store.Set(key, copyResult(res), cache.DefaultExpiration)
}

// Len returns the number of cached results
func (c *ResultCache) Len() int {
	return c.store.ItemCount()
}

// Hits returns the number of lookups served from the cache
func (c *ResultCache) Hits() uint64 { return c.hits.Load() }

// Misses returns the number of lookups that were not cached
func (c *ResultCache) Misses() uint64 { return c.misses.Load() }

// Flush drops every entry
func (c *ResultCache) Flush() {
	c.store.Flush()
}

// Key derives the cache key for a projection of profile against tables
func (c *ResultCache) Key(profile domain.FinancialProfile, tables *domain.TaxYearTables) string {
	h := sha256.New()

	fmt.Fprintf(h, "status=%s|start=%d|", profile.FilingStatus, profile.StartYear)
	spouse := -1
	if profile.SpouseAge != nil {
		spouse = *profile.SpouseAge
	}
	fmt.Fprintf(h, "ages=%d,%d,%d,%d,%d,%d|", profile.CurrentAge, spouse, profile.RetirementAge,
		profile.SocialSecurityStartAge, profile.RMDStartAge, profile.LifeExpectancyAge)
	writeDecimals(h,
		profile.TaxDeferredBalance, profile.RothBalance, profile.TaxableBalance,
		profile.Wages, profile.TaxableInterest, profile.TaxExemptInterest, profile.Dividends,
		profile.CapitalGains, profile.Pension, profile.OtherIncome, profile.SocialSecurityBenefit,
		profile.GrowthRate, profile.YieldRate, profile.InflationRate)
	fmt.Fprintf(h, "irmaa=%t|niit=%t|", profile.ModelIRMAA, profile.ModelNIIT)

	// the conversion function is opaque; key on what it returns
	h.Write([]byte("conv="))
	for i := 0; i < profile.Years(); i++ {
		fmt.Fprintf(h, "%s,", profile.ConversionFor(i, profile.CurrentAge+i).String())
	}

	fmt.Fprintf(h, "|tables=%s", c.fingerprint(tables))
	return hex.EncodeToString(h.Sum(nil))
}

func writeDecimals(h hash.Hash, values ...decimal.Decimal) {
	for _, v := range values {
		fmt.Fprintf(h, "%s,", v.String())
	}
	h.Write([]byte("|"))
}

func (c *ResultCache) fingerprint(tables *domain.TaxYearTables) string {
	if fp, ok := c.fingerprints.Load(tables); ok {
		return fp.(string)
	}
	// encoding/json sorts map keys, so equal tables give equal bytes
	data, err := json.Marshal(tables)
	if err != nil {
		panic(fmt.Sprintf("calculation: fingerprint tables: %v", err))
	}
	sum := sha256.Sum256(data)
	fp := hex.EncodeToString(sum[:])
	c.fingerprints.Store(tables, fp)
	return fp
}

func copyResult(r *domain.ProjectionResult) *domain.ProjectionResult {
	cp := *r
	cp.Baseline = append([]domain.YearRecord(nil), r.Baseline...)
	cp.Strategy = append([]domain.YearRecord(nil), r.Strategy...)
	return &cp
}
