package ddapi

import (
	"net/url"
	"strconv"
)

// Params builds query parameters, excluding empty values entirely so that no
// null-valued parameter ever reaches the API.
type Params struct {
	values url.Values
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: url.Values{}}
}

// Str adds a string parameter unless the value is empty.
func (p *Params) Str(key, value string) *Params {
	if value != "" {
		p.values.Set(key, value)
	}
	return p
}

// Int adds an integer parameter unless the value is zero.
func (p *Params) Int(key string, value int) *Params {
	if value != 0 {
		p.values.Set(key, strconv.Itoa(value))
	}
	return p
}

// Int64 adds an int64 parameter unconditionally (epoch timestamps may
// legitimately be any value).
func (p *Params) Int64(key string, value int64) *Params {
	p.values.Set(key, strconv.FormatInt(value, 10))
	return p
}

// Bool adds a boolean parameter unconditionally.
func (p *Params) Bool(key string, value bool) *Params {
	p.values.Set(key, strconv.FormatBool(value))
	return p
}

// Values returns the accumulated url.Values.
func (p *Params) Values() url.Values {
	return p.values
}
