// Package cache pkg/cache/keys.go
package cache

import (
	"fmt"
	"strings"
)

// Key identifies one logical query ("all services", "statuses",
// "service detail by id", "events by id+page").
type Key string

const (
	servicesKey    Key = "services"
	statusesKey    Key = "service-statuses"
	servicePrefix      = "service:"
	eventsPrefix       = "service-events:"
)

// Class groups keys that share a freshness policy.
type Class int

const (
	ClassServices Class = iota
	ClassStatuses
	ClassDetail
	ClassEvents
)

func ServicesKey() Key { return servicesKey }

func StatusesKey() Key { return statusesKey }

func ServiceKey(id string) Key {
	return Key(servicePrefix + id)
}

func EventsKey(id string, page int) Key {
	return Key(fmt.Sprintf("%s%s:%d", eventsPrefix, id, page))
}

// EventsKeyPrefix matches every cached event page for one service.
func EventsKeyPrefix(id string) Key {
	return Key(eventsPrefix + id + ":")
}

// Class resolves the freshness class a key belongs to.
func (k Key) Class() Class {
	switch {
	case k == servicesKey:
		return ClassServices
	case k == statusesKey:
		return ClassStatuses
	case strings.HasPrefix(string(k), eventsPrefix):
		return ClassEvents
	default:
		return ClassDetail
	}
}

// HasPrefix reports whether the key falls under a subscription prefix.
func (k Key) HasPrefix(prefix Key) bool {
	return strings.HasPrefix(string(k), string(prefix))
}
