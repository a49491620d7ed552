// Command node starts a ZK-Battleship dispute-engine node.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jayden-sudo/ZK-Battleship/config"
	"github.com/jayden-sudo/ZK-Battleship/engine"
	"github.com/jayden-sudo/ZK-Battleship/events"
	"github.com/jayden-sudo/ZK-Battleship/indexer"
	"github.com/jayden-sudo/ZK-Battleship/ledger"
	"github.com/jayden-sudo/ZK-Battleship/rpc"
	"github.com/jayden-sudo/ZK-Battleship/storage"
	"github.com/jayden-sudo/ZK-Battleship/wallet"
	"github.com/jayden-sudo/ZK-Battleship/zk"

	// Import engine modules to trigger their init() self-registration.
	_ "github.com/jayden-sudo/ZK-Battleship/engine/modules/bank"
	_ "github.com/jayden-sudo/ZK-Battleship/engine/modules/game"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	keyPath := flag.String("key", "node.key", "path to keystore file")
	genKey := flag.Bool("genkey", false, "generate a new account key and exit")
	flag.Parse()

	// Read keystore password from environment (not CLI flags — they leak via ps).
	password := os.Getenv("ZKB_PASSWORD")
	if password == "" {
		log.Println("WARNING: ZKB_PASSWORD not set — keystore will use an empty password")
	}

	// ---- generate key mode ----
	if *genKey {
		w, err := wallet.Generate()
		if err != nil {
			log.Fatal(err)
		}
		if err := wallet.SaveKey(*keyPath, password, w.PrivKey()); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Generated key. Public key (account identity): %s\n", w.PubKey())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	// ---- load config ----
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- open DB ----
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}
	db, err := storage.NewLevelDB(cfg.DataDir + "/engine")
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// ---- initialise state ----
	state := storage.NewStateDB(db)

	// ---- genesis allocation (once, on a fresh database) ----
	if err := seedGenesis(state, db, cfg); err != nil {
		log.Fatalf("genesis: %v", err)
	}

	// ---- events ----
	emitter := events.NewEmitter()

	// ---- indexer ----
	idx := indexer.New(db, emitter)

	// ---- proof verifier ----
	// The circuit verifier ships separately; until it is wired in, the node
	// runs a stub whose answer is fixed by configuration.
	var verifier zk.Verifier = zk.StubVerifier{Accept: cfg.AcceptUnverifiedProofs}
	zk.WarnIfStub(verifier)

	// ---- executor ----
	exec := engine.NewExecutor(state, emitter, engine.Options{
		ChainID:  cfg.Genesis.ChainID,
		Timeouts: cfg.Timeouts(),
		Proof:    verifier,
		Transfer: ledger.TransferFunc(func(recipient string, amount uint64) error {
			// Withdrawals settle off-platform; the node just records them.
			log.Printf("[ledger] withdraw settled: %d to %s", amount, recipient)
			return nil
		}),
	})

	// ---- RPC ----
	rpcAddr := fmt.Sprintf(":%d", cfg.RPCPort)
	rpcHandler := rpc.NewHandler(exec, state, idx, cfg.Genesis.ChainID)
	rpcServer := rpc.NewServer(rpcAddr, rpcHandler, cfg.AuthToken)
	if err := rpcServer.Start(); err != nil {
		log.Fatalf("rpc start: %v", err)
	}
	defer rpcServer.Stop()
	log.Printf("RPC listening on %s", rpcAddr)
	if cfg.AuthToken != "" {
		log.Println("RPC Bearer token authentication enabled")
	}

	// ---- graceful shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")
	// Deferred calls run in LIFO: rpcServer.Stop → db.Close
	log.Println("Shutdown complete.")
}

// genesisDoneKey marks that the initial allocation has been applied.
const genesisDoneKey = "genesis:done"

func seedGenesis(state *storage.StateDB, db storage.DB, cfg *config.Config) error {
	done, err := db.Get([]byte(genesisDoneKey))
	if err == nil && len(done) > 0 {
		return nil
	}
	lgr := ledger.New(state, nil)
	for user, amount := range cfg.Genesis.Alloc {
		if err := lgr.Deposit(user, amount); err != nil {
			return err
		}
	}
	if err := state.Commit(); err != nil {
		return err
	}
	if err := db.Set([]byte(genesisDoneKey), []byte{1}); err != nil {
		return err
	}
	if len(cfg.Genesis.Alloc) > 0 {
		log.Printf("Genesis allocation applied to %d account(s)", len(cfg.Genesis.Alloc))
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config file not found at %s, using defaults.", path)
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}
