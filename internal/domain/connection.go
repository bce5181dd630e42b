package domain

import "strings"

// EntityKind classifies one end of a movement route.
type EntityKind string

const (
	EntityExchange       EntityKind = "exchange"
	EntityHardwareWallet EntityKind = "hardware_wallet"
	EntitySoftwareWallet EntityKind = "software_wallet"
	EntityUnknown        EntityKind = "unknown"
)

// Connection describes one configured account link: an exchange integration
// or a tracked wallet.
type Connection struct {
	ID           string `yaml:"id" json:"id"`
	Type         string `yaml:"type" json:"type"`
	Name         string `yaml:"name" json:"name"`
	DisplayName  string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Chain        string `yaml:"chain,omitempty" json:"chain,omitempty"`
	HardwareType string `yaml:"hardware_type,omitempty" json:"hardware_type,omitempty"`
	Enabled      bool   `yaml:"enabled" json:"enabled"`
}

// Label returns the human-readable name for the connection.
func (c Connection) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

var exchangeConnectionTypes = map[string]struct{}{
	"binance":  {},
	"bybit":    {},
	"coinbase": {},
	"kraken":   {},
	"okx":      {},
	"exchange": {},
}

var walletConnectionTypes = map[string]struct{}{
	"wallet":          {},
	"software_wallet": {},
	"metamask":        {},
	"phantom":         {},
	"onchain":         {},
}

// Kind classifies the connection from its structured metadata.
// The hardware flag wins over the integration type.
func (c Connection) Kind() EntityKind {
	if c.HardwareType != "" {
		return EntityHardwareWallet
	}
	t := strings.ToLower(c.Type)
	if _, ok := exchangeConnectionTypes[t]; ok {
		return EntityExchange
	}
	if _, ok := walletConnectionTypes[t]; ok {
		return EntitySoftwareWallet
	}
	return EntityUnknown
}

// ConnectionDirectory resolves connection ids to connections.
type ConnectionDirectory map[string]Connection

// NewConnectionDirectory indexes connections by id.
func NewConnectionDirectory(connections []Connection) ConnectionDirectory {
	dir := make(ConnectionDirectory, len(connections))
	for _, c := range connections {
		if c.ID == "" {
			continue
		}
		dir[c.ID] = c
	}
	return dir
}

// Lookup returns the connection for id when it exists.
func (d ConnectionDirectory) Lookup(id string) (Connection, bool) {
	if id == "" {
		return Connection{}, false
	}
	c, ok := d[id]
	return c, ok
}

// NormalizeAsset canonicalizes an asset symbol for map keys and route keys.
func NormalizeAsset(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
