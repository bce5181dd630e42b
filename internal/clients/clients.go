// Package clients constructs the exchange SDK clients used for live quotes.
package clients

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/adshao/go-binance/v2"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hirokisan/bybit/v2"
	hyperliquid "github.com/sonirico/go-hyperliquid"
)

// NewBinanceClient builds a Binance REST client. Quote endpoints work with
// empty credentials.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	return binance.NewClient(apiKey, apiSecret)
}

// NewBybitClient builds a Bybit REST client. Quote endpoints work with empty
// credentials.
func NewBybitClient(apiKey, apiSecret string) *bybit.Client {
	if apiKey == "" && apiSecret == "" {
		return bybit.NewClient()
	}
	return bybit.NewClient().WithAuth(apiKey, apiSecret)
}

// HyperliquidClient wraps the Hyperliquid exchange client; the SDK derives
// the Info API handle from it.
type HyperliquidClient struct {
	exchange    *hyperliquid.Exchange
	accountAddr string
}

// NewHyperliquidClient builds a Hyperliquid client from a hex private key.
// The SDK requires a signing key even when only the public Info API is used.
func NewHyperliquidClient(privateKeyHex string, baseURL string) (*HyperliquidClient, error) {
	key := privateKeyHex
	if len(key) >= 2 && (key[:2] == "0x" || key[:2] == "0X") {
		key = key[2:]
	}

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, err
	}

	pub := privateKey.Public()
	pubECDSA, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("error casting public key to ECDSA")
	}
	accountAddr := crypto.PubkeyToAddress(*pubECDSA).Hex()

	ex := hyperliquid.NewExchange(
		context.Background(),
		privateKey,
		baseURL,
		nil,
		"",
		accountAddr,
		nil,
	)

	return &HyperliquidClient{exchange: ex, accountAddr: accountAddr}, nil
}

// Info returns the public Info API handle.
func (c *HyperliquidClient) Info() *hyperliquid.Info { return c.exchange.Info() }

// AccountAddress returns the address derived from the signing key.
func (c *HyperliquidClient) AccountAddress() string { return c.accountAddr }
