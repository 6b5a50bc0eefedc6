package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"acdm_platform/ledger"
	"acdm_platform/platform"
)

func cmdDeposit() *cobra.Command {
	var asset string
	c := &cobra.Command{
		Use:   "deposit <amount>",
		Short: "Mint test funds into the caller account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			if err := p.Ledger().Mint(who, ledger.Asset(asset), amount); err != nil {
				return err
			}
			fmt.Printf("minted %d %s to %s\n", amount, asset, who)
			return nil
		},
	}
	c.Flags().StringVar(&asset, "asset", string(ledger.AssetNative), "asset to mint")
	return c
}

func cmdApprove() *cobra.Command {
	var asset, spender string
	c := &cobra.Command{
		Use:   "approve <amount>",
		Short: "Allow a spender to draw from the caller account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return p.Ledger().Approve(who, ledger.Address(spender), ledger.Asset(asset), amount)
		},
	}
	c.Flags().StringVar(&asset, "asset", string(ledger.AssetLiquidity), "asset to approve")
	c.Flags().StringVar(&spender, "spender", string(platform.StakingAccount), "spender account")
	return c
}

func cmdBalance() *cobra.Command {
	var asset string
	c := &cobra.Command{
		Use:   "balance",
		Short: "Print the caller's balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			fmt.Printf("%d\n", p.Ledger().BalanceOf(who, ledger.Asset(asset)))
			return nil
		},
	}
	c.Flags().StringVar(&asset, "asset", string(ledger.AssetNative), "asset to query")
	return c
}

func cmdStake() *cobra.Command {
	return &cobra.Command{
		Use:   "stake <amount>",
		Short: "Lock liquidity tokens and start accruing rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return p.Stake(who, amount)
		},
	}
}

func cmdUnstake() *cobra.Command {
	return &cobra.Command{
		Use:   "unstake",
		Short: "Withdraw the full staked deposit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			return p.Unstake(who)
		},
	}
}

func cmdClaim() *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Collect accrued staking rewards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			paid, err := p.Claim(who)
			if err != nil {
				return err
			}
			fmt.Printf("claimed %d\n", paid)
			return nil
		},
	}
}

func cmdRegister() *cobra.Command {
	var referrer string
	c := &cobra.Command{
		Use:   "register",
		Short: "Join the referral program under an existing member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			return p.Register(who, ledger.Address(referrer))
		},
	}
	c.Flags().StringVar(&referrer, "referrer", "", "referring account")
	_ = c.MarkFlagRequired("referrer")
	return c
}

func cmdStartSaleRound() *cobra.Command {
	return &cobra.Command{
		Use:   "start-sale-round",
		Short: "Open the next sale round at the grown price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			if err := p.StartSaleRound(); err != nil {
				return err
			}
			r := p.ActiveRound()
			fmt.Printf("sale open: price=%d supply=%d\n", r.UnitPrice, r.UnitsLeft)
			return nil
		},
	}
}

func cmdStartTradeRound() *cobra.Command {
	return &cobra.Command{
		Use:   "start-trade-round",
		Short: "Close the sale, burn leftover supply and open trading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			return p.StartTradeRound()
		},
	}
}

func cmdBuy() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <payment>",
		Short: "Buy platform tokens from the active sale round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			payment, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return p.Buy(who, payment)
		},
	}
}

func cmdAddOrder() *cobra.Command {
	return &cobra.Command{
		Use:   "add-order <amount> <unit-price>",
		Short: "Escrow platform tokens as a sell order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			price, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			id, err := p.AddOrder(who, amount, price)
			if err != nil {
				return err
			}
			fmt.Printf("order %d\n", id)
			return nil
		},
	}
}

func cmdRemoveOrder() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-order <id>",
		Short: "Cancel an order and reclaim its escrow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return p.RemoveOrder(who, id)
		},
	}
}

func cmdFillOrder() *cobra.Command {
	return &cobra.Command{
		Use:   "fill-order <id> <payment>",
		Short: "Buy from an open order, partially or in full",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payment, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			return p.FillOrder(who, id, payment)
		},
	}
}

func cmdPropose() *cobra.Command {
	var recipient string
	var capability uint
	var minOut int64
	var deadlineIn int64
	var level1, level2 int64
	c := &cobra.Command{
		Use:   "propose <kind>",
		Short: "Submit a governance proposal (chair only)",
		Long: "Kinds: grant_treasury_role, disburse_treasury, swap_and_burn, " +
			"set_sale_royalty, set_trade_royalty.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			action := platform.Action{
				Kind:       platform.ActionKind(args[0]),
				Capability: platform.Capability(capability),
				MinOut:     ledger.Amount(minOut),
				Level1Bps:  level1,
				Level2Bps:  level2,
			}
			if deadlineIn > 0 {
				action.Deadline = time.Now().Unix() + deadlineIn
			}
			id, err := p.AddProposal(who, action, ledger.Address(recipient))
			if err != nil {
				return err
			}
			fmt.Printf("proposal %d\n", id)
			return nil
		},
	}
	c.Flags().StringVar(&recipient, "recipient", "", "grantee for grant_treasury_role")
	c.Flags().UintVar(&capability, "capability", 0, "capability bits for grant_treasury_role")
	c.Flags().Int64Var(&minOut, "min-out", 0, "minimum swap output for swap_and_burn")
	c.Flags().Int64Var(&deadlineIn, "deadline-in", 0, "swap deadline, seconds from now")
	c.Flags().Int64Var(&level1, "level1-bps", 0, "first royalty level, basis points")
	c.Flags().Int64Var(&level2, "level2-bps", 0, "second royalty level, basis points")
	return c
}

func cmdVote() *cobra.Command {
	var against bool
	c := &cobra.Command{
		Use:   "vote <proposal-id>",
		Short: "Cast the caller's full staked weight on a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return p.Vote(who, id, !against)
		},
	}
	c.Flags().BoolVar(&against, "against", false, "vote against instead of for")
	return c
}

func cmdFinish() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <proposal-id>",
		Short: "Finalize a proposal after its debate window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			outcome, err := p.FinishProposal(id)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", outcome)
			return nil
		},
	}
}

func cmdSendToOwner() *cobra.Command {
	return &cobra.Command{
		Use:   "send-to-owner",
		Short: "Pay out the accumulated treasury to the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			return p.DisburseToOwner(who)
		},
	}
}

func cmdSwapAndBurn() *cobra.Command {
	var minOut int64
	var deadlineIn int64
	c := &cobra.Command{
		Use:   "swap-and-burn",
		Short: "Swap treasury funds for platform tokens and burn them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlatform(cmd)
			if err != nil {
				return err
			}
			who, err := caller(cmd)
			if err != nil {
				return err
			}
			return p.SwapAndBurn(who, ledger.Amount(minOut), time.Now().Unix()+deadlineIn)
		},
	}
	c.Flags().Int64Var(&minOut, "min-out", 0, "minimum tokens out of the swap")
	c.Flags().Int64Var(&deadlineIn, "deadline-in", 600, "deadline, seconds from now")
	return c
}
