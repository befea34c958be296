package entity

import (
	"log/slog"
	"strconv"
)

// Id identifies a single simulated object. Ids are handed out by an external
// entity registry, this module never creates or recycles them.
type Id uint32

// None is never assigned to a real entity.
const None = Id(0)

func (e Id) String() string {
	return strconv.Itoa(int(e))
}

func (e Id) LogValue() slog.Value {
	return slog.StringValue(e.String())
}
