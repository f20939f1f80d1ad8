// Package idoclient builds and submits SolStarter transactions against a
// live RPC endpoint: it is the off-chain counterpart to internal/idoprogram,
// playing the same role the teacher's solprogram package plays for its
// envelope program.
package idoclient

import (
	"context"
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Client wraps an RPC connection scoped to one deployed program.
type Client struct {
	RPC       *rpc.Client
	ProgramID solana.PublicKey
}

// NewClient connects to rpcURL and targets programID.
func NewClient(rpcURL string, programID string) (*Client, error) {
	pubkey, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}
	return &Client{
		RPC:       rpc.New(rpcURL),
		ProgramID: pubkey,
	}, nil
}

// CreateTransaction wraps a single instruction in an unsigned, base64
// serialized transaction against the latest blockhash.
func (c *Client) CreateTransaction(ctx context.Context, instruction solana.Instruction, payer solana.PublicKey) (string, error) {
	return c.CreateTransactionWithInstructions(ctx, []solana.Instruction{instruction}, payer)
}

// CreateTransactionWithInstructions wraps multiple instructions in a single
// unsigned, base64 serialized transaction.
func (c *Client) CreateTransactionWithInstructions(ctx context.Context, instructions []solana.Instruction, payer solana.PublicKey) (string, error) {
	recent, err := c.RPC.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(txBytes), nil
}

// SendSignedTransaction submits a base64-encoded, already-signed
// transaction and returns its signature.
func (c *Client) SendSignedTransaction(ctx context.Context, signedTxBase64 string) (string, error) {
	txBytes, err := base64.StdEncoding.DecodeString(signedTxBase64)
	if err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(txBytes))
	if err != nil {
		return "", fmt.Errorf("parse transaction: %w", err)
	}

	sig, err := c.RPC.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return sig.String(), nil
}

// GetAccountData fetches an account's raw data, or nil if the account does
// not exist yet.
func (c *Client) GetAccountData(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	info, err := c.RPC.GetAccountInfo(ctx, key)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get account info: %w", err)
	}
	if info == nil || info.Value == nil {
		return nil, nil
	}
	return info.Value.Data.GetBinary(), nil
}
