package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	rpcawards "github.com/veilpress/veilpress-contract/rpc/awards"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	chainLabel := flag.String("label", "", "Label of the blockchain environment (e.g. 'testnet')")
	awardsHashLE := flag.String("awards", "", "Awards contract hash in LE form")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *chainLabel == "":
		log.Fatal("missing blockchain label")
	case *awardsHashLE == "":
		log.Fatal("missing awards contract hash")
	}

	awardsHash, err := util.Uint160DecodeStringLE(*awardsHashLE)
	if err != nil {
		log.Fatal(fmt.Errorf("decode awards contract hash: %w", err))
	}

	const rootDir = "testdata"

	err = os.MkdirAll(rootDir, 0700)
	if err != nil {
		log.Fatal(fmt.Errorf("create root dir: %w", err))
	}

	err = _dump(*neoRPCEndpoint, rootDir, *chainLabel, awardsHash)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("VeilPress contract state is successfully dumped to '%s/'\n", rootDir)
}

func _dump(neoBlockchainRPCEndpoint, rootDir, label string, awardsHash util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	err = printPeriodSummary(b, awardsHash)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(rootDir, fmt.Sprintf("%s-awards-%d.dump", label, b.currentBlock)))
	if err != nil {
		return fmt.Errorf("create dump file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	err = b.iterateContractStorage(awardsHash, func(key, value []byte) error {
		_, err := fmt.Fprintf(w, "%s\t%s\n", base58.Encode(key), base58.Encode(value))
		return err
	})
	if err != nil {
		return fmt.Errorf("iterate awards contract storage: %w", err)
	}

	return w.Flush()
}

func printPeriodSummary(b *remoteBlockchain, awardsHash util.Uint160) error {
	reader := rpcawards.NewReader(b.actor, awardsHash)

	period, err := reader.SubmissionPeriod()
	if err != nil {
		return fmt.Errorf("get submission period: %w", err)
	}

	stats, err := reader.GetPeriodStats(period)
	if err != nil {
		return fmt.Errorf("get period stats: %w", err)
	}

	log.Printf("Period %s: %s works, %s reviews\n", period, stats.WorkCount, stats.ReviewCount)

	sessionID, iter, err := reader.Works(period)
	if err != nil {
		// the server may not support sessions, the storage dump still works
		log.Printf("skip work listing: %v\n", err)
		return nil
	}
	defer func() {
		_ = b.actor.TerminateSession(sessionID)
	}()

	for {
		items, err := b.actor.TraverseIterator(sessionID, &iter, 100)
		if err != nil {
			return fmt.Errorf("traverse works iterator: %w", err)
		}
		for i := range items {
			work, err := workFromItem(items[i])
			if err != nil {
				return err
			}
			log.Printf("  [%s] %q by %s\n", rpcawards.GenreNames[int(work.Genre.Int64())],
				work.Title, work.Author.StringLE())
		}
		if len(items) < 100 {
			return nil
		}
	}
}

func workFromItem(item stackitem.Item) (*rpcawards.AwardsWork, error) {
	var work rpcawards.AwardsWork
	if err := work.FromStackItem(item); err != nil {
		return nil, fmt.Errorf("decode work: %w", err)
	}
	return &work, nil
}
