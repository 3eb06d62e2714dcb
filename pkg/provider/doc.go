// Package provider contains the HTTP clients for the three upstream market
// data sources:
//
//   - VCIClient: daily OHLCV history, the symbol catalogue and the price board
//   - DirectoryClient: the GraphQL company directory, ICB codes and intraday index charts
//   - TCBSClient: the sector classification (industries and tickers)
//
// Every client call is paced by a per-provider token bucket and performed
// exactly once. Failures are returned as *Error with a Kind telling callers
// whether the upstream could not be reached (KindFetch) or answered without
// the expected structure (KindShape):
//
//	rows, err := client.PriceBoard(ctx, []string{"VNM", "FPT"})
//	if provider.KindOf(err) == provider.KindFetch {
//		// upstream down or non-2xx
//	}
package provider
