// Command protoss runs a Protoss key exchange between an in-process initiator
// and responder and reports whether their session keys agree.
//
// With --mismatch-trials it also runs exchanges where the two sides use
// different passwords and counts how often the keys collide, which should be
// never.
//
// # Usage
//
//	go run ./cmd/protoss
//	go run ./cmd/protoss --password=hunter2 --pi=616c696365 --pj=626f62 --confirm
//	go run ./cmd/protoss --config=protoss.yaml --mismatch-trials=10000
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	protoss "github.com/BurakKTopal/ProtossPAKEBench"
)

var errKeyMismatch = errors.New("session keys do not match")

func main() {
	var (
		configPath     = flag.String("config", "", "Path to YAML config file")
		password       = flag.String("password", "", "Shared password")
		identityI      = flag.String("pi", "", "Initiator identity (hex)")
		identityJ      = flag.String("pj", "", "Responder identity (hex)")
		mismatchTrials = flag.Int("mismatch-trials", -1, "Exchanges to run with differing passwords")
		confirm        = flag.Bool("confirm", false, "Exchange key confirmation tags")
		logLevel       = flag.String("log-level", "", "Log level: debug, info, warn, error")
		logFormat      = flag.String("log-format", "", "Log format: text or json")
	)
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if *password != "" {
		cfg.Password = *password
	}
	if *identityI != "" {
		cfg.IdentityI = *identityI
	}
	if *identityJ != "" {
		cfg.IdentityJ = *identityJ
	}
	if *mismatchTrials >= 0 {
		cfg.MismatchTrials = *mismatchTrials
	}
	if *confirm {
		cfg.Confirm = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}

	pi, pj, err := cfg.Validate()
	if err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := cfg.NewLogger(os.Stderr)

	p, err := protoss.New(nil)
	if err != nil {
		log.Error("backend initialization failed", "err", err)
		os.Exit(1)
	}

	if err := runExchange(log, p, []byte(cfg.Password), pi, pj, cfg.Confirm); err != nil {
		log.Error("exchange failed", "err", err)
		fmt.Println("Session keys do NOT match.")
		os.Exit(1)
	}
	fmt.Println("Session keys match.")

	if cfg.MismatchTrials > 0 {
		collisions, err := runMismatch(log, p, []byte(cfg.Password), pi, pj, cfg.MismatchTrials)
		if err != nil {
			log.Error("mismatch experiment failed", "err", err)
			os.Exit(1)
		}
		fmt.Printf("Mismatched passwords: %d/%d exchanges produced equal keys\n", collisions, cfg.MismatchTrials)
		if collisions > 0 {
			os.Exit(1)
		}
	}
}

// runExchange performs Init, RspDer and Der and checks the keys agree
func runExchange(log *slog.Logger, p *protoss.Protocol, password, pi, pj []byte, confirm bool) error {
	log.Info("Step One Execution - Init")
	msgI, state, err := p.Init(password, pi, pj)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	log.Debug("initiator message", "bytes", len(msgI))

	log.Info("Step Two Execution - RspDer")
	msgR, keyR, err := p.RspDer(password, pi, pj, msgI)
	if err != nil {
		state.Zeroize()
		return fmt.Errorf("rspder: %w", err)
	}
	defer keyR.Zeroize()
	log.Debug("responder message", "bytes", len(msgR))

	log.Info("Step Three Execution - Der")
	keyI, err := p.Der(state, msgR)
	if err != nil {
		state.Zeroize()
		return fmt.Errorf("der: %w", err)
	}
	defer keyI.Zeroize()

	match := keyI.Equal(keyR)
	log.Info("session keys compared", "match", match, "key_bytes", len(keyI))
	if !match {
		return errKeyMismatch
	}

	if confirm {
		if err := confirmKeys(log, keyI, keyR, msgI, msgR); err != nil {
			return err
		}
	}
	return nil
}

// confirmKeys runs the optional explicit confirmation round
func confirmKeys(log *slog.Logger, keyI, keyR protoss.SessionKey, msgI, msgR []byte) error {
	initiator, err := protoss.NewConfirmation(keyI, msgI, msgR)
	if err != nil {
		return err
	}
	defer initiator.Zeroize()
	responder, err := protoss.NewConfirmation(keyR, msgI, msgR)
	if err != nil {
		return err
	}
	defer responder.Zeroize()

	tagI, err := initiator.InitiatorTag()
	if err != nil {
		return err
	}
	if err := responder.VerifyInitiator(tagI); err != nil {
		return fmt.Errorf("responder: %w", err)
	}

	tagR, err := responder.ResponderTag()
	if err != nil {
		return err
	}
	if err := initiator.VerifyResponder(tagR); err != nil {
		return fmt.Errorf("initiator: %w", err)
	}

	log.Info("key confirmation succeeded")
	return nil
}

// runMismatch counts how many exchanges with differing passwords end with
// equal keys
func runMismatch(log *slog.Logger, p *protoss.Protocol, password, pi, pj []byte, trials int) (int, error) {
	wrong := append([]byte("not-"), password...)
	collisions := 0

	for n := 0; n < trials; n++ {
		msgI, state, err := p.Init(password, pi, pj)
		if err != nil {
			return collisions, fmt.Errorf("trial %d: init: %w", n, err)
		}
		msgR, keyR, err := p.RspDer(wrong, pi, pj, msgI)
		if err != nil {
			state.Zeroize()
			return collisions, fmt.Errorf("trial %d: rspder: %w", n, err)
		}
		keyI, err := p.Der(state, msgR)
		if err != nil {
			state.Zeroize()
			return collisions, fmt.Errorf("trial %d: der: %w", n, err)
		}
		if keyI.Equal(keyR) {
			collisions++
			log.Warn("session keys matched for different passwords", "trial", n)
		}
		keyI.Zeroize()
		keyR.Zeroize()
	}

	log.Info("mismatch experiment finished", "trials", trials, "collisions", collisions)
	return collisions, nil
}
