package intake

import "mailroom/internal/models"

// Record is a subscriber as built from one request. Only the keys sent are
// present, so applying a Record never clears columns it does not mention.
type Record struct {
	Email     string            `json:"email"`
	FirstName string            `json:"firstName,omitempty"`
	LastName  string            `json:"lastName,omitempty"`
	Timezone  string            `json:"tz,omitempty"`
	Values    map[string]string `json:"values"`
	Partial   bool              `json:"partial"`
}

// BuildRecord maps a subscribe request through the list schema. Keys that
// no field claims are ignored.
func BuildRecord(req SubscribeRequest, schema Schema) Record {
	record := Record{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Timezone:  req.Timezone,
		Values:    make(map[string]string),
		Partial:   true,
	}
	for _, field := range schema.Fields() {
		field.Collect(req.Values, record.Values)
	}
	return record
}

// Apply writes the record onto sub. Empty passthroughs leave the stored
// value alone; custom values replace only the columns they name.
func (r Record) Apply(sub *models.Subscription) {
	sub.Email = r.Email
	if r.FirstName != "" {
		sub.FirstName = r.FirstName
	}
	if r.LastName != "" {
		sub.LastName = r.LastName
	}
	if r.Timezone != "" {
		sub.Timezone = r.Timezone
	}

	merged := make(map[string]interface{}, len(sub.CustomFields)+len(r.Values))
	for k, v := range sub.CustomFields {
		merged[k] = v
	}
	for k, v := range r.Values {
		merged[k] = v
	}
	sub.CustomFields = merged
}
