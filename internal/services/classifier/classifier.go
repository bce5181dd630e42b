// Package classifier resolves the counterparties of a raw activity event into
// semantic entity kinds and a canonical directional route.
package classifier

import (
	"strings"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const (
	// ExternalWalletLabel is the synthetic source for deposits arriving from an
	// unlabeled external counterpart.
	ExternalWalletLabel = "External wallet"
	// DestinationLabel is the synthetic target for withdrawals to an unlabeled
	// external counterpart.
	DestinationLabel = "Destination"
	// UnknownSourceLabel is the fallback when an event carries no usable venue
	// information at all.
	UnknownSourceLabel = "Unknown source"
)

// Route is the resolved identity of both ends of a movement.
type Route struct {
	FromLabel        string
	ToLabel          string
	FromKind         domain.EntityKind
	ToKind           domain.EntityKind
	FromConnectionID string
	ToConnectionID   string
}

// Key returns the canonical route key for the given asset.
func (r Route) Key(asset string) string {
	return domain.RouteKeyFor(r.FromLabel, r.ToLabel, asset)
}

// Classifier resolves events against a connection directory.
type Classifier struct {
	dir domain.ConnectionDirectory
}

// New creates a classifier over the given connection directory.
func New(dir domain.ConnectionDirectory) *Classifier {
	return &Classifier{dir: dir}
}

// Classify resolves both ends of the event. It never fails: unknown or
// ambiguous inputs degrade to placeholder labels and the unknown kind.
func (c *Classifier) Classify(event domain.ActivityEvent) Route {
	switch event.Activity {
	case domain.ActivityInternal:
		return c.classifyInternal(event)
	case domain.ActivityTransfer:
		return c.classifyTransfer(event)
	case domain.ActivityTrade:
		return c.classifyTrade(event)
	default:
		venue, venueID := c.venueLabel(event)
		return Route{
			FromLabel:        venue,
			ToLabel:          venue,
			FromKind:         c.kindFor(venueID, venue),
			ToKind:           c.kindFor(venueID, venue),
			FromConnectionID: venueID,
			ToConnectionID:   venueID,
		}
	}
}

// classifyTrade keeps both ends on the trading venue itself: a trade does not
// move funds between entities.
func (c *Classifier) classifyTrade(event domain.ActivityEvent) Route {
	venue, venueID := c.venueLabel(event)
	kind := c.kindFor(venueID, venue)
	return Route{
		FromLabel:        venue,
		ToLabel:          venue,
		FromKind:         kind,
		ToKind:           kind,
		FromConnectionID: venueID,
		ToConnectionID:   venueID,
	}
}

func (c *Classifier) classifyInternal(event domain.ActivityEvent) Route {
	fromLabel, fromID := c.endLabel(event.From, event.FromConnectionID)
	toLabel, toID := c.endLabel(event.To, event.ToConnectionID)

	if fromLabel == "" {
		fromLabel, fromID = c.venueLabel(event)
	}
	if toLabel == "" {
		toLabel = DestinationLabel
	}

	return Route{
		FromLabel:        fromLabel,
		ToLabel:          toLabel,
		FromKind:         c.kindFor(fromID, fromLabel),
		ToKind:           c.kindFor(toID, toLabel),
		FromConnectionID: fromID,
		ToConnectionID:   toID,
	}
}

// classifyTransfer decides which end is the external, unlabeled counterpart by
// probing the raw type string. The direction of the route key is never swapped:
// deposits always flow into the connected venue, withdrawals out of it.
func (c *Classifier) classifyTransfer(event domain.ActivityEvent) Route {
	venue, venueID := c.venueLabel(event)
	venueKind := c.kindFor(venueID, venue)
	rawType := strings.ToLower(event.Type)

	switch {
	case strings.Contains(rawType, "deposit"):
		fromLabel, fromID := c.endLabel(event.From, event.FromConnectionID)
		if fromLabel == "" {
			fromLabel = ExternalWalletLabel
		}
		return Route{
			FromLabel:        fromLabel,
			ToLabel:          venue,
			FromKind:         c.kindFor(fromID, fromLabel),
			ToKind:           venueKind,
			FromConnectionID: fromID,
			ToConnectionID:   venueID,
		}
	case strings.Contains(rawType, "withdraw"):
		toLabel, toID := c.endLabel(event.To, event.ToConnectionID)
		if toLabel == "" {
			toLabel = DestinationLabel
		}
		return Route{
			FromLabel:        venue,
			ToLabel:          toLabel,
			FromKind:         venueKind,
			ToKind:           c.kindFor(toID, toLabel),
			FromConnectionID: venueID,
			ToConnectionID:   toID,
		}
	default:
		fromLabel, fromID := c.endLabel(event.From, event.FromConnectionID)
		toLabel, toID := c.endLabel(event.To, event.ToConnectionID)
		if fromLabel == "" {
			fromLabel, fromID = venue, venueID
		}
		if toLabel == "" {
			toLabel = DestinationLabel
		}
		return Route{
			FromLabel:        fromLabel,
			ToLabel:          toLabel,
			FromKind:         c.kindFor(fromID, fromLabel),
			ToKind:           c.kindFor(toID, toLabel),
			FromConnectionID: fromID,
			ToConnectionID:   toID,
		}
	}
}

// endLabel resolves one end from its explicit label or linked connection id.
func (c *Classifier) endLabel(explicit, connectionID string) (string, string) {
	if explicit != "" {
		return explicit, connectionID
	}
	if conn, ok := c.dir.Lookup(connectionID); ok {
		return conn.Label(), connectionID
	}
	return "", connectionID
}

// venueLabel resolves the event's own venue: explicit exchange name first,
// then the linked connection, then a generic fallback.
func (c *Classifier) venueLabel(event domain.ActivityEvent) (string, string) {
	if event.Exchange != "" {
		return event.Exchange, event.ConnectionID
	}
	if conn, ok := c.dir.Lookup(event.ConnectionID); ok {
		return conn.Label(), event.ConnectionID
	}
	if event.ConnectionID != "" {
		return event.ConnectionID, event.ConnectionID
	}
	return UnknownSourceLabel, ""
}

// kindFor classifies one end: structured connection metadata wins, label
// substring heuristics are the fallback.
func (c *Classifier) kindFor(connectionID, label string) domain.EntityKind {
	if conn, ok := c.dir.Lookup(connectionID); ok {
		if kind := conn.Kind(); kind != domain.EntityUnknown {
			return kind
		}
	}
	return kindFromLabel(label)
}

var hardwareHints = []string{"ledger", "trezor"}
var exchangeHints = []string{"binance", "bybit", "coinbase", "kraken", "okx", "exchange"}

func kindFromLabel(label string) domain.EntityKind {
	l := strings.ToLower(label)
	for _, hint := range hardwareHints {
		if strings.Contains(l, hint) {
			return domain.EntityHardwareWallet
		}
	}
	for _, hint := range exchangeHints {
		if strings.Contains(l, hint) {
			return domain.EntityExchange
		}
	}
	if strings.Contains(l, "wallet") {
		return domain.EntitySoftwareWallet
	}
	return domain.EntityUnknown
}
