package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ark-network/miniscript/descriptor"
	"github.com/ark-network/miniscript/expression"
	"github.com/ark-network/miniscript/internal/config"
	"github.com/ark-network/miniscript/miniscript"
)

var (
	version = "dev"

	cfg *config.Config
)

var (
	parseCommand = cli.Command{
		Name:  "parse",
		Usage: "Parse a descriptor expression and print its tree",
		Action: func(ctx *cli.Context) error {
			return parse(ctx)
		},
		Flags: []cli.Flag{&bracedFlag},
	}

	checksumCommand = cli.Command{
		Name:  "checksum",
		Usage: "Append the checksum to a descriptor expression",
		Action: func(ctx *cli.Context) error {
			return checksum(ctx)
		},
	}

	verifyCommand = cli.Command{
		Name:  "verify",
		Usage: "Verify the checksum of a descriptor expression",
		Action: func(ctx *cli.Context) error {
			return verify(ctx)
		},
	}

	checkCommand = cli.Command{
		Name:  "check",
		Usage: "Check precomputed script metrics against the configured script context",
		Action: func(ctx *cli.Context) error {
			return check(ctx)
		},
		Flags: []cli.Flag{
			&pkCostFlag, &opCountFlag, &satSizeFlag, &stackCountFlag,
			&execStackCountFlag,
		},
	}

	checkKeyCommand = cli.Command{
		Name:  "check-key",
		Usage: "Check a hex public key against the configured script context",
		Action: func(ctx *cli.Context) error {
			return checkKey(ctx)
		},
	}
)

var (
	bracedFlag = cli.BoolFlag{
		Name:  "braced",
		Usage: "parse a taproot tree expression delimited by braces",
		Value: false,
	}
	pkCostFlag = cli.IntFlag{
		Name:     "pk-cost",
		Usage:    "serialized script size in bytes",
		Required: true,
	}
	opCountFlag = cli.IntFlag{
		Name:  "op-count",
		Usage: "worst-case executed opcodes over all satisfaction paths",
		Value: -1,
	}
	satSizeFlag = cli.IntFlag{
		Name:  "sat-size",
		Usage: "worst-case satisfaction size in bytes",
		Value: -1,
	}
	stackCountFlag = cli.IntFlag{
		Name:  "stack-count",
		Usage: "worst-case witness stack elements of a satisfaction",
		Value: -1,
	}
	execStackCountFlag = cli.IntFlag{
		Name:  "exec-stack-count",
		Usage: "worst-case stack and altstack elements during execution",
		Value: -1,
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "Miniscript CLI"
	app.Usage = "descriptor expression parsing and validation"
	app.Commands = append(
		app.Commands,
		&parseCommand,
		&checkCommand,
		&checksumCommand,
		&verifyCommand,
		&checkKeyCommand,
	)

	app.Before = func(ctx *cli.Context) error {
		c, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("error while loading config: %v", err)
		}
		cfg = c

		log.SetLevel(log.Level(cfg.LogLevel))
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

func parse(ctx *cli.Context) error {
	expr := ctx.Args().First()
	if expr == "" {
		return fmt.Errorf("missing descriptor expression")
	}

	fromString := expression.FromString
	if ctx.Bool("braced") {
		fromString = expression.FromBracedString
	}

	tree, err := fromString(expr)
	if err != nil {
		return err
	}

	log.WithField("context", cfg.Context.Name()).Debug("parsed expression")
	printTree(&tree, 0)
	return nil
}

func checksum(ctx *cli.Context) error {
	expr := ctx.Args().First()
	if expr == "" {
		return fmt.Errorf("missing descriptor expression")
	}

	withChecksum, err := descriptor.AppendChecksum(expr)
	if err != nil {
		return err
	}

	fmt.Println(withChecksum)
	return nil
}

func verify(ctx *cli.Context) error {
	expr := ctx.Args().First()
	if expr == "" {
		return fmt.Errorf("missing descriptor expression")
	}

	if !strings.ContainsRune(expr, '#') {
		return fmt.Errorf("expression carries no checksum")
	}
	if _, err := descriptor.VerifyChecksum(expr); err != nil {
		return err
	}

	fmt.Println("checksum ok")
	return nil
}

func check(ctx *cli.Context) error {
	node := &miniscript.Node{
		Fragment: miniscript.FragmentThresh,
		Type:     miniscript.Type{Base: miniscript.BaseB},
		Ext: miniscript.ExtData{
			PkCost: ctx.Int("pk-cost"),
		},
	}
	if v := ctx.Int("op-count"); v >= 0 {
		node.Ext.OpCount = &v
	}
	if v := ctx.Int("sat-size"); v >= 0 {
		node.Ext.MaxSatSize = &miniscript.SatisfactionSize{
			Witness: v, ScriptSig: v,
		}
	}
	if v := ctx.Int("stack-count"); v >= 0 {
		node.Ext.StackElemCountSat = &v
	}
	if v := ctx.Int("exec-stack-count"); v >= 0 {
		node.Ext.ExecStackElemCountSat = &v
	}

	log.WithField("context", cfg.Context.Name()).Debug("checking metrics")
	if err := miniscript.CheckLocalValidity(cfg.Context, node); err != nil {
		return err
	}

	fmt.Printf("metrics are valid under %s\n", cfg.Context.Name())
	return nil
}

func checkKey(ctx *cli.Context) error {
	keyHex := ctx.Args().First()
	if keyHex == "" {
		return fmt.Errorf("missing public key")
	}

	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid public key hex: %v", err)
	}

	var key miniscript.Key
	if len(raw) == 32 {
		key, err = miniscript.ParseXOnlyPublicKey(raw)
	} else {
		key, err = miniscript.ParsePublicKey(raw)
	}
	if err != nil {
		return err
	}

	if err := cfg.Context.CheckPk(key); err != nil {
		return err
	}

	fmt.Printf("key is valid under %s\n", cfg.Context.Name())
	return nil
}

func printTree(t *expression.Tree, depth int) {
	name := t.Name
	if name == "" {
		name = `""`
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), name)
	for i := range t.Args {
		printTree(&t.Args[i], depth+1)
	}
}
