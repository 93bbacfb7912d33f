package bridge

import (
	"context"

	"ironbook/internal/md/codec"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// PacketSource yields one fully-formed MD message per call, matching
// spec.md's framing rule ("one SBE message per packet"). The actual
// multicast socket behind it is named in spec.md section 1 as an
// external collaborator, out of the core's scope; Ironbook only
// depends on this interface so the ingestion loop can be driven by a
// test fake or by whatever transport a deployment wires in.
type PacketSource interface {
	ReadPacket(ctx context.Context) ([]byte, error)
}

// Ingest reads packets from src until ctx is canceled, decodes each by
// its header's template id, folds it into the Bridge, and publishes
// the resulting UpdateRecord on out. Supervised with a tomb the same
// way internal/oe/session supervises its connection handlers.
func Ingest(ctx context.Context, t *tomb.Tomb, src PacketSource, b *Bridge, out chan<- *UpdateRecord) error {
	for {
		select {
		case <-t.Dying():
			return nil
		default:
		}

		raw, err := src.ReadPacket(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("md: error reading packet")
			continue
		}

		rec, err := decodeAndFold(b, raw)
		if err != nil {
			log.Error().Err(err).Msg("md: error folding packet")
			continue
		}
		if rec != nil {
			select {
			case out <- rec:
			case <-t.Dying():
				return nil
			}
		}
	}
}

func decodeAndFold(b *Bridge, raw []byte) (*UpdateRecord, error) {
	header, err := codec.DecodeHeader(raw)
	if err != nil {
		return nil, err
	}

	switch header.TemplateID {
	case codec.TemplateInstrument:
		msg, err := codec.DecodeInstrumentMessage(raw)
		if err != nil {
			return nil, err
		}
		b.ApplyInstrument(msg)
		return nil, nil
	case codec.TemplateInstrumentV2:
		msg, err := codec.DecodeInstrumentV2Message(raw)
		if err != nil {
			return nil, err
		}
		b.ApplyInstrumentV2(msg)
		return nil, nil
	case codec.TemplateBook:
		msg, err := codec.DecodeBookMessage(raw)
		if err != nil {
			return nil, err
		}
		return b.ApplyBook(msg)
	case codec.TemplateTrades:
		msg, err := codec.DecodeTradesMessage(raw)
		if err != nil {
			return nil, err
		}
		return b.ApplyTrades(msg)
	case codec.TemplateTicker:
		msg, err := codec.DecodeTickerMessage(raw)
		if err != nil {
			return nil, err
		}
		return b.ApplyTicker(msg)
	case codec.TemplateSnapshot:
		msg, err := codec.DecodeSnapshotMessage(raw)
		if err != nil {
			return nil, err
		}
		return b.ApplySnapshot(msg)
	case codec.TemplateSnapshotStart, codec.TemplateSnapshotEnd,
		codec.TemplateComboLegs, codec.TemplatePriceIndex, codec.TemplateRfq:
		return nil, nil
	default:
		return nil, codec.ErrUnknownTemplate
	}
}
