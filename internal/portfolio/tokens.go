package portfolio

import "strings"

// Token is a supported coin with its display metadata.
type Token struct {
	Name    string
	Symbol  string
	LogoURL string
}

// SupportedTokens lists the coins offered by the add flow, with logo assets
// fetched through the image loader.
var SupportedTokens = []Token{
	{Name: "Bitcoin", Symbol: "BTC", LogoURL: "https://assets.coingecko.com/coins/images/1/large/bitcoin.png"},
	{Name: "Ethereum", Symbol: "ETH", LogoURL: "https://assets.coingecko.com/coins/images/279/large/ethereum.png"},
	{Name: "BNB", Symbol: "BNB", LogoURL: "https://assets.coingecko.com/coins/images/825/large/bnb-icon2_2x.png"},
	{Name: "XRP", Symbol: "XRP", LogoURL: "https://assets.coingecko.com/coins/images/44/large/xrp-symbol-white-128.png"},
	{Name: "Solana", Symbol: "SOL", LogoURL: "https://assets.coingecko.com/coins/images/4128/large/solana.png"},
	{Name: "Cardano", Symbol: "ADA", LogoURL: "https://assets.coingecko.com/coins/images/975/large/cardano.png"},
	{Name: "Dogecoin", Symbol: "DOGE", LogoURL: "https://assets.coingecko.com/coins/images/5/large/dogecoin.png"},
	{Name: "Polkadot", Symbol: "DOT", LogoURL: "https://assets.coingecko.com/coins/images/12171/large/polkadot.png"},
	{Name: "TRON", Symbol: "TRX", LogoURL: "https://assets.coingecko.com/coins/images/1094/large/tron-logo.png"},
	{Name: "Polygon", Symbol: "MATIC", LogoURL: "https://assets.coingecko.com/coins/images/4713/large/matic-token-icon.png"},
	{Name: "Litecoin", Symbol: "LTC", LogoURL: "https://assets.coingecko.com/coins/images/2/large/litecoin.png"},
	{Name: "Chainlink", Symbol: "LINK", LogoURL: "https://assets.coingecko.com/coins/images/877/large/chainlink-new-logo.png"},
	{Name: "Uniswap", Symbol: "UNI", LogoURL: "https://assets.coingecko.com/coins/images/12504/large/uniswap-uni.png"},
	{Name: "Bitcoin Cash", Symbol: "BCH", LogoURL: "https://assets.coingecko.com/coins/images/780/large/bitcoin-cash-circle.png"},
	{Name: "USD Coin", Symbol: "USDC", LogoURL: "https://assets.coingecko.com/coins/images/6319/large/USD_Coin_icon.png"},
	{Name: "NEXO", Symbol: "NEXO", LogoURL: "https://dd49625.webp.li/CryptoLogos/nexo-nexo-logo-27484548fe1f0631e83694ddb109afcb.png"},
	{Name: "Official Trump", Symbol: "TRUMP", LogoURL: "https://dd49625.webp.li/CryptoLogos/trump-9e4b379a87870e9beba21b92cd90a589.png"},
	{Name: "Melania Meme", Symbol: "MELANIA", LogoURL: "https://dd49625.webp.li/CryptoLogos/melania-1501f79aefa960443a8c4e0b025822c6.jpeg"},
}

// LookupToken finds a supported token by symbol (case-insensitive).
func LookupToken(symbol string) (Token, bool) {
	for _, t := range SupportedTokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return Token{}, false
}
