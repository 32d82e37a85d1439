package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
)

func printPending(trans []database.Tx) {
	if len(trans) == 0 {
		pterm.Info.Println("No pending transactions.")
		return
	}

	data := pterm.TableData{{"#", "Sender", "Receiver", "Amount"}}
	for i, tx := range trans {
		data = append(data, []string{strconv.Itoa(i + 1), tx.Sender, tx.Receiver, tx.Amount.String()})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printBlocks(blocks []database.BlockData) {
	pterm.DefaultSection.Printfln("Chain length: %d", len(blocks))

	for _, blk := range blocks {
		var body string
		body += pterm.Sprintfln("Hash:          %s", blk.Hash)
		body += pterm.Sprintfln("Previous Hash: %s", blk.PrevHash)
		body += pterm.Sprintfln("Nonce:         %d", blk.Nonce)
		body += pterm.Sprintfln("Timestamp:     %s", time.UnixMilli(blk.TimeStamp).UTC().Format(time.RFC3339))
		body += pterm.Sprintfln("Transactions:  %d", len(blk.Trans))
		for _, tx := range blk.Trans {
			body += pterm.Sprintfln("  %s -> %s: %s", tx.Sender, tx.Receiver, tx.Amount)
		}

		title := pterm.LightYellow(fmt.Sprintf("|BLOCK #%d|", blk.Index))
		pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Println(body)
	}
}

func printBalance(account string, balance decimal.Decimal) {
	pterm.Info.Printfln("%s balance: %s", pterm.LightCyan(account), balance)
}

func printValidity(valid bool, reason string) {
	if valid {
		pterm.Success.Println("Chain is valid.")
		return
	}
	pterm.Error.Printfln("Chain is invalid: %s", reason)
}

func printStats(stats state.Stats) {
	status := pterm.LightGreen("valid")
	if !stats.Valid {
		status = pterm.LightRed("invalid")
	}

	data := pterm.TableData{
		{"Blocks", strconv.Itoa(stats.Blocks)},
		{"Pending", strconv.Itoa(stats.Pending)},
		{"Difficulty", strconv.FormatUint(uint64(stats.Difficulty), 10)},
		{"Mining Reward", stats.MiningReward.String()},
		{"Transactions", strconv.Itoa(stats.Transactions)},
		{"Beneficiary", stats.Beneficiary},
		{"Status", status},
	}

	pterm.DefaultTable.WithData(data).Render()
}
