package abi

import (
	"bytes"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/wighawag/rocketh-go/internal/domain/models"
)

// DecodedParam is one named event argument
type DecodedParam struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// DecodedLog is a receipt log resolved against a known deployment
type DecodedLog struct {
	Index    uint           `json:"index" yaml:"index"`
	Address  common.Address `json:"address" yaml:"address"`
	Contract string         `json:"contract,omitempty" yaml:"contract,omitempty"`
	Event    string         `json:"event,omitempty" yaml:"event,omitempty"`
	Params   []DecodedParam `json:"params,omitempty" yaml:"params,omitempty"`
	Topics   []common.Hash  `json:"topics,omitempty" yaml:"topics,omitempty"`
	Data     string         `json:"data,omitempty" yaml:"data,omitempty"`
}

// IsDecoded reports whether the event was matched to an ABI
func (l *DecodedLog) IsDecoded() bool {
	return l.Event != ""
}

type emitter struct {
	name string
	abi  abi.ABI
}

// EventDecoder decodes receipt logs emitted by recorded deployments
type EventDecoder struct {
	emitters map[common.Address]emitter
	log      *slog.Logger
}

// NewEventDecoder indexes the ABIs of deployments by address. Records without a
// stored ABI are skipped.
func NewEventDecoder(deployments []*models.Deployment, log *slog.Logger) *EventDecoder {
	if log == nil {
		log = slog.Default()
	}
	d := &EventDecoder{
		emitters: make(map[common.Address]emitter),
		log:      log.With("component", "EventDecoder"),
	}
	for _, dep := range deployments {
		if len(dep.ABI) == 0 {
			continue
		}
		parsed, err := abi.JSON(bytes.NewReader(dep.ABI))
		if err != nil {
			d.log.Debug("skipping unparsable ABI", "name", dep.Name, "error", err)
			continue
		}
		d.emitters[dep.Address] = emitter{name: dep.Name, abi: parsed}
	}
	return d
}

// DecodeLogs decodes every log it can. Unknown emitters or events keep their raw topics.
func (d *EventDecoder) DecodeLogs(logs []*types.Log) []DecodedLog {
	out := make([]DecodedLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, d.DecodeLog(l))
	}
	return out
}

// DecodeLog decodes a single log entry
func (d *EventDecoder) DecodeLog(l *types.Log) DecodedLog {
	decoded := DecodedLog{
		Index:   l.Index,
		Address: l.Address,
		Topics:  l.Topics,
		Data:    FormatValue(l.Data),
	}

	src, ok := d.emitters[l.Address]
	if !ok || len(l.Topics) == 0 {
		return decoded
	}
	decoded.Contract = src.name

	event, err := src.abi.EventByID(l.Topics[0])
	if err != nil {
		return decoded
	}

	values := make(map[string]any)
	if len(l.Data) > 0 {
		if err := event.Inputs.UnpackIntoMap(values, l.Data); err != nil {
			d.log.Debug("failed to unpack event data", "event", event.Name, "error", err)
			return decoded
		}
	}
	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, l.Topics[1:]); err != nil {
		d.log.Debug("failed to parse event topics", "event", event.Name, "error", err)
		return decoded
	}

	decoded.Event = event.Name
	decoded.Topics = nil
	decoded.Data = ""
	for _, input := range event.Inputs {
		decoded.Params = append(decoded.Params, DecodedParam{
			Name:  input.Name,
			Type:  input.Type.String(),
			Value: FormatValue(values[input.Name]),
		})
	}
	return decoded
}
