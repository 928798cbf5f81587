package schedule

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Slot is a normalized weekly class offering
type Slot struct {
	ID         string `json:"id"`
	Weekday    string `json:"day_of_week"`
	GroupType  string `json:"group_type"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	PriceCents int64  `json:"price_cents"`
	Capacity   int64  `json:"capacity"`
}

// CartItem is a normalized cart entry or booking
type CartItem struct {
	ID         string `json:"id"`
	SlotID     string `json:"slot_id"`
	ClassDate  string `json:"class_date"`
	AddedAt    string `json:"added_at,omitempty"`
	GroupType  string `json:"group_type"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	PriceCents int64  `json:"price_cents"`
	Capacity   int64  `json:"capacity"`
	Status     string `json:"status,omitempty"`
}

// Field names a logical attribute of a slot or cart record
type Field string

const (
	FieldID        Field = "id"
	FieldWeekday   Field = "weekday"
	FieldGroupType Field = "group_type"
	FieldStartTime Field = "start_time"
	FieldEndTime   Field = "end_time"
	FieldPrice     Field = "price_cents"
	FieldCapacity  Field = "capacity"
	FieldSlotID    Field = "slot_id"
	FieldClassDate Field = "class_date"
	FieldAddedAt   Field = "added_at"
	FieldStatus    Field = "status"
)

// FieldAliases lists, per logical field, the accepted record keys in priority order
var FieldAliases = map[Field][]string{
	FieldID:        {"id", "slot_id", "slotId"},
	FieldWeekday:   {"day_of_week", "dayOfWeek", "weekday", "day"},
	FieldGroupType: {"group_type", "groupType"},
	FieldStartTime: {"start_time", "startTime"},
	FieldEndTime:   {"end_time", "endTime"},
	FieldPrice:     {"price_cents", "priceCents", "price"},
	FieldCapacity:  {"capacity"},
	FieldSlotID:    {"slot_id", "slotId"},
	FieldClassDate: {"class_date", "classDate"},
	FieldAddedAt:   {"added_at", "addedAt", "created_at", "createdAt"},
	FieldStatus:    {"status"},
}

// cart records carry their own id, so the slot_id alias must not stand in for it
var cartIDAliases = []string{"id"}

// SlotsByWeekday groups slots by canonical weekday, each group ordered by start time
type SlotsByWeekday map[string][]Slot

// For returns the slots of a weekday, or nil
func (g SlotsByWeekday) For(weekday string) []Slot {
	return g[weekday]
}

// Total counts all grouped slots
func (g SlotsByWeekday) Total() int {
	n := 0
	for _, slots := range g {
		n += len(slots)
	}
	return n
}

// Find looks up a slot by id inside one weekday group
func (g SlotsByWeekday) Find(weekday, id string) (Slot, bool) {
	for _, s := range g[weekday] {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}

// Resolve returns the first present, non-nil value among names
func Resolve(record map[string]any, names []string) (any, bool) {
	if record == nil {
		return nil, false
	}
	for _, name := range names {
		if v, ok := record[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// NormalizeSlot resolves every slot field of a raw record, using defaults for
// anything absent or unparseable
func NormalizeSlot(record map[string]any) Slot {
	return Slot{
		ID:         resolveString(record, FieldAliases[FieldID]),
		Weekday:    Canonicalize(resolveString(record, FieldAliases[FieldWeekday])),
		GroupType:  resolveString(record, FieldAliases[FieldGroupType]),
		StartTime:  resolveString(record, FieldAliases[FieldStartTime]),
		EndTime:    resolveString(record, FieldAliases[FieldEndTime]),
		PriceCents: resolveCount(record, FieldAliases[FieldPrice]),
		Capacity:   resolveCount(record, FieldAliases[FieldCapacity]),
	}
}

// NormalizeAndGroup normalizes raw slot records and groups them by weekday.
// It never fails: malformed records degrade to default field values.
func NormalizeAndGroup(raw []map[string]any) SlotsByWeekday {
	grouped := make(SlotsByWeekday)
	for _, record := range raw {
		slot := NormalizeSlot(record)
		key := slot.Weekday
		if key == "" {
			key = UnknownWeekday
		}
		grouped[key] = append(grouped[key], slot)
	}
	for _, slots := range grouped {
		sort.SliceStable(slots, func(i, j int) bool {
			return TimeSortKey(slots[i].StartTime) < TimeSortKey(slots[j].StartTime)
		})
	}
	return grouped
}

// NormalizeCartItems applies the field resolver to cart or booking records
func NormalizeCartItems(raw []map[string]any) []CartItem {
	items := make([]CartItem, 0, len(raw))
	for _, record := range raw {
		items = append(items, CartItem{
			ID:         resolveString(record, cartIDAliases),
			SlotID:     resolveString(record, FieldAliases[FieldSlotID]),
			ClassDate:  resolveString(record, FieldAliases[FieldClassDate]),
			AddedAt:    resolveString(record, FieldAliases[FieldAddedAt]),
			GroupType:  resolveString(record, FieldAliases[FieldGroupType]),
			StartTime:  resolveString(record, FieldAliases[FieldStartTime]),
			EndTime:    resolveString(record, FieldAliases[FieldEndTime]),
			PriceCents: resolveCount(record, FieldAliases[FieldPrice]),
			Capacity:   resolveCount(record, FieldAliases[FieldCapacity]),
			Status:     resolveString(record, FieldAliases[FieldStatus]),
		})
	}
	return items
}

// TimeSortKey returns the ordering key of a start time. Zero-padded "HH:MM"
// values are their own key; a single-digit hour is padded so "9:00" sorts
// before "10:00". Anything else sorts by its raw text.
func TimeSortKey(s string) string {
	colon := strings.IndexByte(s, ':')
	if colon != 1 || s[0] < '0' || s[0] > '9' {
		return s
	}
	return "0" + s
}

func resolveString(record map[string]any, names []string) string {
	v, ok := Resolve(record, names)
	if !ok {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

// resolveCount coerces a value to a non-negative integer, 0 on failure
func resolveCount(record map[string]any, names []string) int64 {
	v, ok := Resolve(record, names)
	if !ok {
		return 0
	}

	var f float64
	switch typed := v.(type) {
	case float64:
		f = typed
	case float32:
		f = float64(typed)
	case int:
		f = float64(typed)
	case int32:
		f = float64(typed)
	case int64:
		f = float64(typed)
	case uint:
		f = float64(typed)
	case uint64:
		f = float64(typed)
	case bool:
		if typed {
			f = 1
		}
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
