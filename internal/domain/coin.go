package domain

// Coin is a supported cryptocurrency symbol.
type Coin string

// Supported coin symbols.
const (
	CoinBTC  Coin = "BTC"
	CoinETH  Coin = "ETH"
	CoinLTC  Coin = "LTC"
	CoinXRP  Coin = "XRP"
	CoinDOGE Coin = "DOGE"
)

// SupportedCoins lists all coins the platform quotes, in display order.
var SupportedCoins = []Coin{CoinBTC, CoinETH, CoinLTC, CoinXRP, CoinDOGE}

// IsSupported reports whether c is a platform-quoted coin.
func (c Coin) IsSupported() bool {
	switch c {
	case CoinBTC, CoinETH, CoinLTC, CoinXRP, CoinDOGE:
		return true
	default:
		return false
	}
}
