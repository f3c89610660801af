package parsers

import (
	"fmt"

	"github.com/fzk888/CB-Settlement/src/parsers/amazon"
	"github.com/fzk888/CB-Settlement/src/parsers/g7"
	"github.com/fzk888/CB-Settlement/src/parsers/haiyang"
	"github.com/fzk888/CB-Settlement/src/parsers/managedstore"
	"github.com/fzk888/CB-Settlement/src/parsers/marketplacex"
	"github.com/fzk888/CB-Settlement/src/parsers/shein"
	"github.com/fzk888/CB-Settlement/src/parsers/temu"
	"github.com/fzk888/CB-Settlement/src/parsers/tsp"
	"github.com/fzk888/CB-Settlement/src/parsers/xiyou"
)

// GetTransactionParser returns the parser for a platform tag. An unknown
// tag is a configuration error and the only fatal condition in the whole
// parse phase.
func GetTransactionParser(source string) (TransactionParser, error) {
	switch source {
	case "amazon":
		return amazon.NewParser(), nil
	case "temu":
		return temu.NewParser(), nil
	case "shein":
		return shein.NewParser(), nil
	case "managed_store":
		return managedstore.NewParser(), nil
	case "marketplace_x":
		return marketplacex.NewParser(), nil
	default:
		return nil, fmt.Errorf("no transaction parser available for source: %s", source)
	}
}

// GetCostParser returns the parser for a warehouse tag.
func GetCostParser(source string) (CostParser, error) {
	switch source {
	case "tsp":
		return tsp.NewParser(), nil
	case "haiyang":
		return haiyang.NewParser(), nil
	case "xiyou":
		return xiyou.NewParser(), nil
	case "g7":
		return g7.NewParser(), nil
	default:
		return nil, fmt.Errorf("no cost parser available for source: %s", source)
	}
}
