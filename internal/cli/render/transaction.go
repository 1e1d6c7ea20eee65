package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/wighawag/rocketh-go/internal/adapters/abi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle   = color.New(color.Faint)
	eventStyle   = color.New(color.FgMagenta, color.Bold)
	successStyle = color.New(color.FgGreen, color.Bold)
	failureStyle = color.New(color.FgRed, color.Bold)
)

// TransactionRenderer renders receipts and their decoded events
type TransactionRenderer struct {
	out io.Writer
}

// NewTransactionRenderer creates a new transaction renderer
func NewTransactionRenderer(out io.Writer) *TransactionRenderer {
	return &TransactionRenderer{out: out}
}

// ReceiptStatus returns "success" or "failed"
func ReceiptStatus(receipt *types.Receipt) string {
	if receipt.Status == types.ReceiptStatusSuccessful {
		return "success"
	}
	return "failed"
}

// RenderReceipt renders a receipt followed by its logs
func (r *TransactionRenderer) RenderReceipt(receipt *types.Receipt, logs []abi.DecodedLog) error {
	status := cases.Title(language.English).String(ReceiptStatus(receipt))
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = successStyle.Sprint(status)
	} else {
		status = failureStyle.Sprint(status)
	}

	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Transaction:"), receipt.TxHash.Hex())
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Status:     "), status)
	if receipt.BlockNumber != nil {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Block:      "), receipt.BlockNumber)
	}
	fmt.Fprintf(r.out, "%s %d\n", labelStyle.Sprint("Gas Used:   "), receipt.GasUsed)
	if receipt.ContractAddress != (common.Address{}) {
		fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprint("Created:    "), receipt.ContractAddress.Hex())
	}

	if len(logs) == 0 {
		return nil
	}

	fmt.Fprintf(r.out, "\nEvents (%d):\n", len(logs))
	for _, l := range logs {
		r.renderLog(l)
	}
	return nil
}

func (r *TransactionRenderer) renderLog(l abi.DecodedLog) {
	emitter := l.Address.Hex()
	if l.Contract != "" {
		emitter = fmt.Sprintf("%s (%s)", l.Contract, l.Address.Hex())
	}

	if !l.IsDecoded() {
		fmt.Fprintf(r.out, "  [%d] %s %s\n", l.Index, labelStyle.Sprint("unknown event from"), emitter)
		for i, topic := range l.Topics {
			fmt.Fprintf(r.out, "      topic%d: %s\n", i, topic.Hex())
		}
		if l.Data != "" && l.Data != "0x" {
			fmt.Fprintf(r.out, "      data: %s\n", l.Data)
		}
		return
	}

	fmt.Fprintf(r.out, "  [%d] %s %s\n", l.Index, eventStyle.Sprint(l.Event), labelStyle.Sprintf("from %s", emitter))
	for _, p := range l.Params {
		fmt.Fprintf(r.out, "      %s %s: %s\n", p.Type, p.Name, p.Value)
	}
}
