// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis builds the very first state of a node: the bootstrap
// jar-store, the gamete and the initialization transaction of §3's
// lifecycle, run in sequence against an empty store.
package genesis

import (
	"fmt"
	"io"
	"math/big"

	"github.com/takamaka/node/crypto"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/runtime"
	"github.com/takamaka/node/takamaka"
	"gopkg.in/yaml.v3"
)

// Config is the YAML-encoded description of a node's genesis: the
// consensus parameters of §4.J plus the values the three bootstrap
// transactions need (the jar itself is supplied separately, since it is
// a binary blob rather than scalar configuration).
type Config struct {
	ChainID          string   `yaml:"chain_id"`
	Signature        string   `yaml:"signature"`
	InitialSupply    string   `yaml:"initial_supply"`
	InitialRedSupply string   `yaml:"initial_red_supply"`
	PublicKeyOfGamete string  `yaml:"public_key_of_gamete"`
	AllowSelfCharged bool     `yaml:"allow_self_charged"`
	MaxGasPerView    uint64   `yaml:"max_gas_per_view"`
	WhiteListedTargets []string `yaml:"white_listed_targets,omitempty"`
	StoragePermittedTypes []string `yaml:"storage_permitted_types,omitempty"`
}

// LoadConfig parses a Config out of r.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("genesis: decoding config: %w", err)
	}
	return &cfg, nil
}

// Consensus translates the YAML config into the runtime.Consensus the
// node's Context runs with.
func (c *Config) Consensus() (runtime.Consensus, error) {
	scheme := crypto.Scheme(c.Signature)
	if _, err := crypto.ForScheme(scheme); err != nil {
		return runtime.Consensus{}, err
	}
	return runtime.Consensus{
		ChainID:               c.ChainID,
		Signature:             scheme,
		AllowSelfCharged:      c.AllowSelfCharged,
		MaxGasPerView:         c.MaxGasPerView,
		WhiteListedTargets:    c.WhiteListedTargets,
		StoragePermittedTypes: c.StoragePermittedTypes,
	}, nil
}

func parseSupply(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("genesis: invalid integer %q", s)
	}
	return v, nil
}

// Genesis describes a node's genesis: the instrumented bootstrap jar and
// the parsed config it was built from.
type Genesis struct {
	Config Config
	Jar    []byte
}

// New pairs a config with the jar bytes it bootstraps.
func New(cfg Config, jar []byte) *Genesis {
	return &Genesis{Config: cfg, Jar: jar}
}

// FromYAML reads a Config from r and pairs it with jar.
func FromYAML(r io.Reader, jar []byte) (*Genesis, error) {
	cfg, err := LoadConfig(r)
	if err != nil {
		return nil, err
	}
	return New(*cfg, jar), nil
}

// Result is what Build hands back: the references the rest of the node
// needs to bootstrap consensus checking (classpath admission resolves
// against the takamaka-code transaction, and get_gamete/get_manifest
// answer from the info-trie slots Build populates).
type Result struct {
	Classpath takamaka.Bytes32
	Gamete    takamaka.StorageRef
	Manifest  takamaka.StorageRef
}

// Build runs the three initial transactions in sequence against st
// (§3: jar-store-initial, then gamete-creation, then initialization),
// applying each as it succeeds and committing the store once at the
// end. There is no admission
// checking or gas reservation on this path — these are the three
// requests that predate the existence of any funded account (§4.H).
//
// The manifest slot is a separate info-trie entry from the gamete
// (store.InfoTagManifest vs. store.InfoTagGamete), but nothing in this
// system models a distinct manifest contract type the way Hotmoka's own
// manifest object does; Build designates the freshly created gamete as
// the manifest reference, which is the only storage object genesis
// itself creates.
func Build(ctx *runtime.Context, g *Genesis) (*Result, error) {
	jarReq := &request.JarStoreInitialRequest{Jar: g.Jar}
	jarTxRef, jarResp, err := run(ctx, jarReq)
	if err != nil {
		return nil, fmt.Errorf("genesis: jar-store-initial: %w", err)
	}
	if err := commit(ctx, jarTxRef, jarReq, jarResp); err != nil {
		return nil, err
	}
	if err := ctx.Store.PutTakamakaCode(jarTxRef); err != nil {
		return nil, err
	}

	initialSupply, err := parseSupply(g.Config.InitialSupply)
	if err != nil {
		return nil, err
	}
	initialRedSupply, err := parseSupply(g.Config.InitialRedSupply)
	if err != nil {
		return nil, err
	}
	signer, err := crypto.ForScheme(crypto.Scheme(g.Config.Signature))
	if err != nil {
		return nil, err
	}
	publicKey, err := signer.DecodePublicKey(g.Config.PublicKeyOfGamete)
	if err != nil {
		return nil, fmt.Errorf("genesis: decoding gamete public key: %w", err)
	}

	gameteReq := &request.GameteCreationRequest{
		Classpath:        jarTxRef,
		InitialSupply:    initialSupply,
		InitialRedSupply: initialRedSupply,
		PublicKey:        publicKey,
	}
	gameteTxRef, gameteResp, err := run(ctx, gameteReq)
	if err != nil {
		return nil, fmt.Errorf("genesis: gamete-creation: %w", err)
	}
	creation, ok := gameteResp.(*response.GameteCreationResponse)
	if !ok {
		return nil, fmt.Errorf("genesis: unexpected gamete-creation response type %T", gameteResp)
	}
	gamete := creation.Gamete
	if err := commit(ctx, gameteTxRef, gameteReq, gameteResp); err != nil {
		return nil, err
	}

	initReq := &request.InitializationRequest{Classpath: jarTxRef, Manifest: gamete}
	initTxRef, initResp, err := run(ctx, initReq)
	if err != nil {
		return nil, fmt.Errorf("genesis: initialization: %w", err)
	}
	if err := commit(ctx, initTxRef, initReq, initResp); err != nil {
		return nil, err
	}

	if _, err := ctx.Store.Commit(); err != nil {
		return nil, fmt.Errorf("genesis: committing: %w", err)
	}

	return &Result{Classpath: jarTxRef, Gamete: gamete, Manifest: gamete}, nil
}

// run executes req against ctx and rejects a Rejected outcome as an error
// — none of the three bootstrap transactions is expected to fail, since
// genesis controls every input they see.
func run(ctx *runtime.Context, req request.Request) (takamaka.Bytes32, response.Response, error) {
	result, err := runtime.Run(ctx, req)
	if err != nil {
		return takamaka.Bytes32{}, nil, err
	}
	if result.State == runtime.Rejected {
		return takamaka.Bytes32{}, nil, fmt.Errorf("rejected: %s", result.Reason)
	}
	return result.TxRef, result.Response, nil
}

func commit(ctx *runtime.Context, txRef takamaka.Bytes32, req request.Request, resp response.Response) error {
	return runtime.Apply(ctx.Store, txRef, req, resp)
}
