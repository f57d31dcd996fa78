package log

import (
	"github.com/fxamacker/cbor/v2"
)

var (
	encMode = mustEncMode(cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	})
	decMode = mustDecMode(cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: 8,
	})
)

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	em, err := opts.EncMode()
	if err != nil {
		panic("log: cbor encode options: " + err.Error())
	}
	return em
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	dm, err := opts.DecMode()
	if err != nil {
		panic("log: cbor decode options: " + err.Error())
	}
	return dm
}

// Marshal encodes one event as a CBOR data item with integer keys.
func Marshal(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// Unmarshal decodes a single CBOR data item into an event.
func Unmarshal(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}
