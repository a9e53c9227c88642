// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	logging "github.com/ipfs/go-log"
)

// Logger is shared by every package in this module. It logs each round banner at Info,
// each corrupt-party marking at Warn, and hash write failures at Error; SetLogLevel
// chooses which of these are shown.
var Logger = logging.Logger("mpc-circuit-sim")

func SetLogLevel(level string) error {
	return logging.SetLogLevel("mpc-circuit-sim", level)
}
