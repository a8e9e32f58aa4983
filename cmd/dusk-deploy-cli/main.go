// Copyright (c) 2024 The Dusk Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command dusk-deploy-cli deploys a contract (and optionally calls one
// of its methods afterward) through either the Phoenix or Moonlight
// payment model, driven entirely by command-line flags and a TOML
// config file.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/dusk-network/dusk-deploy-cli/internal/config"
	"github.com/dusk-network/dusk-deploy-cli/internal/dlog"
	"github.com/dusk-network/dusk-deploy-cli/internal/duskcrypto"
	"github.com/dusk-network/dusk-deploy-cli/internal/engine"
	"github.com/dusk-network/dusk-deploy-cli/internal/keyderiver"
	"github.com/dusk-network/dusk-deploy-cli/internal/prover"
	"github.com/dusk-network/dusk-deploy-cli/internal/stategateway"
	"github.com/dusk-network/dusk-deploy-cli/internal/txexec"
	"github.com/dusk-network/dusk-deploy-cli/internal/walleterr"
)

var log = dlog.EnginLog

// options is the CLI's flag surface, exactly spec.md §6's list.
// --seed and --moonlight are mutually exclusive and jointly required;
// go-flags has no native mutex-group tag, so that's enforced by hand
// in validate, the way the teacher validates its own cross-flag
// constraints after Parse returns.
type options struct {
	ConfigPath string `long:"config-path" description:"path to the TOML config file" default:"./config.toml"`

	Seed      string `long:"seed" description:"BIP-39 mnemonic seed phrase (Phoenix mode)"`
	Moonlight string `long:"moonlight" description:"base58-encoded 32-byte secret key (Moonlight mode)"`

	GasLimit uint64 `long:"gas-limit" description:"gas limit" default:"500000000"`
	GasPrice uint64 `long:"gas-price" description:"gas price" default:"1"`

	ContractPath string `long:"contract-path" description:"path to the WASM bytecode to deploy"`
	Owner        string `long:"owner" description:"hex-encoded owner bytes"`
	Nonce        uint64 `long:"nonce" description:"deploy nonce (distinct from the account nonce)"`
	Args         string `long:"args" description:"hex-encoded constructor arguments"`

	BlockHeight    uint64 `long:"block-height" description:"absolute block height to scan notes from"`
	RelativeHeight uint64 `long:"relative-height" description:"if non-zero, scan from max(0, current_height - relative_height)"`

	Method string `long:"method" description:"if non-empty, call this method after a successful deploy and print the result"`
}

func (o options) validate() error {
	if (o.Seed == "") == (o.Moonlight == "") {
		return walleterr.New(walleterr.InvalidMnemonic, "exactly one of --seed or --moonlight must be given")
	}
	if o.ContractPath == "" {
		return walleterr.New(walleterr.ConfigIO, "--contract-path is required")
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	if err := opts.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}

	if err := deploy(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return 0
}

func deploy(opts options) error {
	file, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg := config.Resolve(file, "", "")

	seed, moonlightMode, err := resolveSeed(opts)
	if err != nil {
		return err
	}

	bytecode, err := os.ReadFile(opts.ContractPath)
	if err != nil {
		return walleterr.Wrap(walleterr.ConfigIO, "reading contract bytecode", err)
	}
	owner, err := hex.DecodeString(opts.Owner)
	if err != nil {
		return walleterr.Wrap(walleterr.Serialization, "decoding --owner", err)
	}
	args, err := hex.DecodeString(opts.Args)
	if err != nil {
		return walleterr.Wrap(walleterr.Serialization, "decoding --args", err)
	}

	deploySpec := txexec.NewDeploy(txexec.DeployPayload{
		Bytecode:     bytecode,
		BytecodeHash: duskcrypto.HashBytes(bytecode),
		Owner:        owner,
		InitArgs:     args,
		Nonce:        opts.Nonce,
	})

	ruskClient := stategateway.NewClient(cfg.RuskAddress, 30*time.Second, nil)
	proverClient := stategateway.NewClient(cfg.ProverAddress, 30*time.Second, nil)
	gw := stategateway.NewRuskGateway(ruskClient)
	pr := prover.NewGateway(proverClient, ruskClient)
	eng := engine.New(seed, gw, pr, nil)

	ctx := context.Background()
	fromHeight, err := resolveFromHeight(ctx, gw, opts)
	if err != nil {
		return err
	}

	var verify *engine.Verification
	if opts.Method != "" {
		verify = &engine.Verification{
			Bytecode: bytecode,
			Nonce:    opts.Nonce,
			Owner:    owner,
			Method:   opts.Method,
		}
	}

	var result engine.Result
	if moonlightMode {
		senderSK, derr := keyderiver.DeriveAccountSecretKey(seed, 0)
		if derr != nil {
			return derr
		}
		account, aerr := gw.FetchAccount(ctx, senderSK.PublicKey())
		if aerr != nil {
			return aerr
		}
		result, err = eng.RunMoonlight(ctx, engine.MoonlightRequest{
			RNG:           rand.Reader,
			SenderIndex:   0,
			Value:         0,
			GasLimit:      opts.GasLimit,
			GasPrice:      opts.GasPrice,
			Nonce:         account.Nonce + 1,
			ChainID:       mustChainID(ctx, gw),
			Exec:          deploySpec,
			VerifyAgainst: verify,
		})
	} else {
		senderSK, derr := keyderiver.DeriveNoteSecretKey(seed, 0)
		if derr != nil {
			return derr
		}
		eng.Cache.SeedHeight(senderSK.ViewKey(), fromHeight)
		result, err = eng.RunPhoenix(ctx, engine.PhoenixRequest{
			RNG:           rand.Reader,
			SenderIndex:   0,
			ReceiverPK:    senderSK.PublicKey(),
			Value:         0,
			GasLimit:      opts.GasLimit,
			GasPrice:      opts.GasPrice,
			Exec:          deploySpec,
			VerifyAgainst: verify,
		})
	}
	if err != nil {
		return err
	}

	fmt.Println(result.TxID)
	if opts.Method != "" {
		fmt.Println(hex.EncodeToString(result.QueriedValue))
	}
	return nil
}

func resolveSeed(opts options) (keyderiver.Seed, bool, error) {
	if opts.Moonlight != "" {
		seed, err := keyderiver.SeedFromBase58Key(opts.Moonlight)
		return seed, true, err
	}
	seed, err := keyderiver.SeedFromMnemonic(opts.Seed, "")
	return seed, false, err
}

func resolveFromHeight(ctx context.Context, gw stategateway.Gateway, opts options) (uint64, error) {
	if opts.RelativeHeight == 0 {
		return opts.BlockHeight, nil
	}
	tip, err := gw.FetchBlockHeight(ctx)
	if err != nil {
		return 0, err
	}
	if opts.RelativeHeight > tip {
		return 0, nil
	}
	return tip - opts.RelativeHeight, nil
}

func mustChainID(ctx context.Context, gw stategateway.Gateway) uint8 {
	id, err := gw.FetchChainID(ctx)
	if err != nil {
		log.Warnf("fetching chain id: %v", err)
		return 0
	}
	return id
}

// exitCode maps a walleterr.Kind onto a distinct non-zero process exit
// code, so scripts driving this CLI can distinguish failure classes
// without scraping stderr.
func exitCode(err error) int {
	var werr *walleterr.Error
	if !errors.As(err, &werr) {
		return 1
	}
	return int(werr.Kind) + 2
}
