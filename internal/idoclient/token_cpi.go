package idoclient

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// CPIAdapter builds real SPL Token program instructions for the five
// token-program operations internal/idoprogram.TokenAdapter names (transfer,
// mint-to, burn, init-mint, init-account). It is the off-chain
// counterpart of internal/idoprogram.LedgerAdapter: where LedgerAdapter lets
// unit tests run the handler suite in memory, CPIAdapter is what a deployed
// program would actually invoke, signed by the pool's authority PDA via
// invoke_signed. Building the instruction here never requires the PDA's
// private key (it has none); only submitting it from inside the program
// does, which is out of scope for an off-chain client.
type CPIAdapter struct{}

// TransferInstruction builds an SPL Token Transfer instruction.
func (CPIAdapter) TransferInstruction(src, dst, signer solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewTransferInstruction(amount, src, dst, signer, nil).Build()
}

// MintToInstruction builds an SPL Token MintTo instruction.
func (CPIAdapter) MintToInstruction(mint, dst, signer solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewMintToInstruction(amount, mint, dst, signer, nil).Build()
}

// BurnInstruction builds an SPL Token Burn instruction.
func (CPIAdapter) BurnInstruction(mint, src, signer solana.PublicKey, amount uint64) solana.Instruction {
	return token.NewBurnInstruction(amount, src, mint, signer, nil).Build()
}

// InitMintInstruction builds an SPL Token InitializeMint instruction with no
// freeze authority, decimals fixed at 0 (IDO receipt/whitelist tokens are
// whole-unit counters, not divisible currencies).
func (CPIAdapter) InitMintInstruction(mint, authority solana.PublicKey) solana.Instruction {
	return token.NewInitializeMintInstruction(0, mint, authority, solana.PublicKey{}, solana.SysVarRentPubkey).Build()
}

// InitAccountInstruction builds an SPL Token InitializeAccount instruction.
func (CPIAdapter) InitAccountInstruction(account, mint, owner solana.PublicKey) solana.Instruction {
	return token.NewInitializeAccountInstruction(account, mint, owner, solana.SysVarRentPubkey).Build()
}
