package repository

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/alexanderramin/housebudget/internal/engine"
	"github.com/klauspost/compress/zstd"
)

// Engine state is stored as zstd-compressed JSON. A full 90-day run is a
// few kilobytes of JSON that compresses well because of repeated keys.
var (
	codecOnce sync.Once
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	codecErr  error
)

func initCodec() {
	encoder, codecErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if codecErr != nil {
		return
	}
	decoder, codecErr = zstd.NewReader(nil)
}

// EncodeState serialises an engine snapshot for the simulations.state column.
func EncodeState(st engine.State) ([]byte, error) {
	codecOnce.Do(initCodec)
	if codecErr != nil {
		return nil, fmt.Errorf("initialising zstd: %w", codecErr)
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encoding simulation state: %w", err)
	}
	return encoder.EncodeAll(raw, nil), nil
}

// DecodeState reverses EncodeState.
func DecodeState(blob []byte) (engine.State, error) {
	codecOnce.Do(initCodec)
	if codecErr != nil {
		return engine.State{}, fmt.Errorf("initialising zstd: %w", codecErr)
	}
	raw, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return engine.State{}, fmt.Errorf("decompressing simulation state: %w", err)
	}
	var st engine.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return engine.State{}, fmt.Errorf("decoding simulation state: %w", err)
	}
	return st, nil
}
