package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/Knox77777/Decentralized-Code-Review-Bounty-System/rpc/bounty"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHash := flag.String("contract", "", "LE script hash of the deployed bounty contract")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHash == "":
		log.Fatal("missing contract hash")
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(*contractHash, "0x"))
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract hash: %w", err))
	}

	err = dumpBounties(*neoRPCEndpoint, h)
	if err != nil {
		log.Fatal(err)
	}
}

func dumpBounties(neoRPCEndpoint string, contractHash util.Uint160) error {
	c, err := rpcclient.New(context.Background(), neoRPCEndpoint, rpcclient.Options{})
	if err != nil {
		return fmt.Errorf("create RPC client: %w", err)
	}

	defer c.Close()

	err = c.Init()
	if err != nil {
		return fmt.Errorf("init RPC client: %w", err)
	}

	reader := bounty.NewReader(invoker.New(c, nil), contractHash)

	total, err := reader.TotalBounties()
	if err != nil {
		return fmt.Errorf("get total bounties: %w", err)
	}

	feePercent, err := reader.FeePercent()
	if err != nil {
		return fmt.Errorf("get fee percent: %w", err)
	}

	active, err := reader.GetActiveBountiesCount()
	if err != nil {
		return fmt.Errorf("get active bounties count: %w", err)
	}

	fmt.Printf("contract %s: %s bounties total, %s active, fee %s%%\n",
		contractHash.StringLE(), total, active, feePercent)

	for id := int64(1); id <= total.Int64(); id++ {
		b, err := reader.GetBounty(big.NewInt(id))
		if err != nil {
			return fmt.Errorf("get bounty %d: %w", id, err)
		}

		fmt.Printf("#%s %s\n", b.ID, bountyStatus(b))
		fmt.Printf("  creator:  %s\n", address.Uint160ToString(b.Creator))
		fmt.Printf("  repo:     %s\n", b.RepoLink)
		fmt.Printf("  amount:   %s\n", b.Amount)
		fmt.Printf("  deadline: %s (ms)\n", b.Deadline)
		fmt.Printf("  reviews:  %s\n", b.TotalReviews)

		if len(b.Winner) == util.Uint160Size {
			winner, err := util.Uint160DecodeBytesBE(b.Winner)
			if err != nil {
				return fmt.Errorf("decode bounty %d winner: %w", id, err)
			}
			fmt.Printf("  winner:   %s\n", address.Uint160ToString(winner))
		}
	}

	return nil
}

func bountyStatus(b *bounty.Bounty) string {
	switch {
	case b.Active:
		return "active"
	case b.Paid && len(b.Winner) == 0:
		return "refunded"
	case b.Paid:
		return "paid"
	default:
		return "inactive"
	}
}
