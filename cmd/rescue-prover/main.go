// Command rescue-prover reads a witness from stdin and emits a STARK proof
// summary for the Rescue chain it evaluates.
//
// Input is JSON lines on stdin:
//
//	line 1: parameters, e.g. {"blowup_factor": 8, "num_queries": 40}
//	line 2: witness, e.g. {"words": [[1,2,3,4],[5,6,7,8],[9,10,11,12],[13,14,15,16]]}
//
// The statement is derived from the witness, the proof is generated and
// checked, and a summary is written to stdout as a single JSON object.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	rescuestark "github.com/zkforge/rescue-stark/pkg/rescue-stark"
)

type parametersInput struct {
	BlowupFactor int `json:"blowup_factor"`
	NumQueries   int `json:"num_queries"`
}

type witnessInput struct {
	Words [][4]uint64 `json:"words"`
}

type proofSummary struct {
	Output        []uint64 `json:"output"`
	ChainLength   uint64   `json:"chain_length"`
	TraceRoot     string   `json:"trace_root"`
	ProofSizeByte int      `json:"proof_size_bytes"`
	NumQueries    int      `json:"num_queries"`
	ProvingTimeMs int64    `json:"proving_time_ms"`
	Verified      bool     `json:"verified"`
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<26)

	params := rescuestark.DefaultParameters()
	if !scanner.Scan() {
		logger.Fatal().Msg("failed to read parameters line")
	}
	var paramsIn parametersInput
	if err := json.Unmarshal(scanner.Bytes(), &paramsIn); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse parameters")
	}
	if paramsIn.BlowupFactor != 0 {
		params.BlowupFactor = paramsIn.BlowupFactor
	}
	if paramsIn.NumQueries != 0 {
		params.NumQueries = paramsIn.NumQueries
	}

	if !scanner.Scan() {
		logger.Fatal().Msg("failed to read witness line")
	}
	var witnessIn witnessInput
	if err := json.Unmarshal(scanner.Bytes(), &witnessIn); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse witness")
	}

	witness := make(rescuestark.Witness, len(witnessIn.Words))
	for i, w := range witnessIn.Words {
		witness[i] = rescuestark.NewWord(w[0], w[1], w[2], w[3])
	}

	statement, err := rescuestark.StatementFromWitness(witness)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid witness")
	}
	logger.Info().
		Uint64("chain_length", statement.ChainLength).
		Str("output", fmt.Sprintf("%v", statement.Output)).
		Msg("statement derived")

	logger.Info().
		Int("blowup_factor", params.BlowupFactor).
		Int("num_queries", params.NumQueries).
		Msg("generating proof")
	start := time.Now()
	proof, err := rescuestark.Prove(params, statement, witness)
	if err != nil {
		logger.Fatal().Err(err).Msg("proof generation failed")
	}
	provingTime := time.Since(start)
	logger.Info().
		Dur("elapsed", provingTime).
		Int("size_bytes", proof.Size()).
		Msg("proof generated")

	if err := rescuestark.Verify(params, statement, proof); err != nil {
		logger.Fatal().Err(err).Msg("self-check verification failed")
	}
	logger.Info().Msg("proof verified")

	output := make([]uint64, 0, len(statement.Output))
	for _, e := range statement.Output {
		output = append(output, e.Uint64())
	}
	summary := proofSummary{
		Output:        output,
		ChainLength:   statement.ChainLength,
		TraceRoot:     proof.TraceRoot.String(),
		ProofSizeByte: proof.Size(),
		NumQueries:    len(proof.Queries),
		ProvingTimeMs: provingTime.Milliseconds(),
		Verified:      true,
	}
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(summary); err != nil {
		logger.Fatal().Err(err).Msg("failed to write summary")
	}
}
