package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	simMiner      string
	simDifficulty uint
	simReward     string
)

// Menu entries of the interactive ledger.
const (
	optCreateTx = "Create transaction"
	optPending  = "View pending transactions"
	optMine     = "Mine block"
	optChain    = "View chain"
	optValidate = "Validate chain"
	optBalance  = "Check balance"
	optStats    = "Statistics"
	optExport   = "Export to JSON"
	optExit     = "Exit"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a private in-process ledger from an interactive menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		reward, err := decimal.NewFromString(simReward)
		if err != nil {
			return fmt.Errorf("invalid reward %q: %w", simReward, err)
		}

		gen := genesis.Default()
		gen.Difficulty = simDifficulty
		gen.MiningReward = reward

		s := sim{}

		st, err := state.New(state.Config{
			BeneficiaryID: simMiner,
			Genesis:       gen,
			Notify:        s.notify,
		})
		if err != nil {
			return err
		}
		defer st.Shutdown()

		s.state = st

		return s.run()
	},
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringVarP(&simMiner, "miner", "m", "Miner1", "Account credited with mining rewards.")
	simCmd.Flags().UintVarP(&simDifficulty, "difficulty", "d", genesis.DefaultDifficulty, "Number of leading zeros a block hash needs.")
	simCmd.Flags().StringVarP(&simReward, "reward", "r", "50", "Reward for mining a block.")
}

// =============================================================================

type sim struct {
	state *state.State
	pb    *pterm.ProgressbarPrinter
}

func (s *sim) notify(e events.Event) {
	if s.pb == nil || e.Kind != events.KindMiningProgress {
		return
	}

	if pct := int(e.Fraction * 100); pct > s.pb.Current {
		s.pb.Add(pct - s.pb.Current)
	}
}

func (s *sim) run() error {
	pterm.DefaultHeader.Println("PROOF OF WORK LEDGER")

	options := []string{optCreateTx, optPending, optMine, optChain, optValidate, optBalance, optStats, optExport, optExit}

	for {
		choice, err := pterm.DefaultInteractiveSelect.WithDefaultText("Select an action").WithOptions(options).Show()
		if err != nil {
			return err
		}

		switch choice {
		case optCreateTx:
			err = s.createTx()
		case optPending:
			printPending(s.state.RetrieveMempool())
		case optMine:
			err = s.mine()
		case optChain:
			err = s.chain()
		case optValidate:
			err = s.state.ValidateChain()
			reason := ""
			if err != nil {
				reason = err.Error()
			}
			printValidity(err == nil, reason)
			err = nil
		case optBalance:
			err = s.balance()
		case optStats:
			err = s.stats()
		case optExport:
			err = s.export()
		case optExit:
			pterm.Info.Println("Bye.")
			return nil
		}

		if err != nil {
			pterm.Error.Println(err)
		}
	}
}

func (s *sim) createTx() error {
	sender, err := input("Sender")
	if err != nil {
		return err
	}
	receiver, err := input("Receiver")
	if err != nil {
		return err
	}
	value, err := input("Amount")
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid amount %q", value)
	}

	tx, err := s.state.SubmitTransaction(sender, receiver, amount)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Transaction added: %s", tx)
	return nil
}

func (s *sim) mine() error {
	pending := s.state.QueryMempoolLength()
	if pending == 0 {
		pterm.Warning.Println("No transactions to mine.")
		return nil
	}

	confirm, err := pterm.DefaultInteractiveConfirm.WithDefaultText(fmt.Sprintf("Mine %d pending transactions?", pending)).Show()
	if err != nil || !confirm {
		return err
	}

	s.pb, err = pterm.DefaultProgressbar.WithTotal(100).WithTitle("Mining").Start()
	if err != nil {
		return err
	}

	block, mined, err := s.state.MineNewBlock(context.Background())
	s.pb.Stop()
	s.pb = nil

	switch {
	case errors.Is(err, database.ErrMiningExhausted):
		pterm.Warning.Println("Attempts exhausted, transactions stay pending. Try again.")
		return nil
	case err != nil:
		return err
	case !mined:
		pterm.Warning.Println("Nothing was mined.")
		return nil
	}

	pterm.Success.Printfln("Block #%d mined: %s", block.Header.Number, block.Hash)
	return nil
}

func (s *sim) chain() error {
	blocks, err := s.state.QueryBlocks()
	if err != nil {
		return err
	}

	data := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		data[i] = database.NewBlockData(block)
	}

	printBlocks(data)
	return nil
}

func (s *sim) balance() error {
	account, err := input("Account")
	if err != nil {
		return err
	}

	bal, err := s.state.QueryBalance(account)
	if err != nil {
		return err
	}

	printBalance(account, bal)
	return nil
}

func (s *sim) stats() error {
	stats, err := s.state.QueryStats()
	if err != nil {
		return err
	}

	printStats(stats)
	return nil
}

func (s *sim) export() error {
	file, err := pterm.DefaultInteractiveTextInput.WithDefaultText("File name").WithDefaultValue("blockchain.json").Show()
	if err != nil {
		return err
	}

	file = strings.TrimSpace(file)
	if file == "" {
		file = "blockchain.json"
	}

	exp, err := s.state.Export()
	if err != nil {
		return err
	}

	if err := writeExport(file, exp); err != nil {
		return err
	}

	pterm.Success.Printfln("Ledger written to %s", file)
	return nil
}

func input(prompt string) (string, error) {
	v, err := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
	return strings.TrimSpace(v), err
}
