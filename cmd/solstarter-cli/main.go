package main

import (
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"

	"solstarter/internal/idoprogram"
)

func main() {
	fmt.Println("=== SolStarter IDO Program Demo ===")

	// =====================================================
	// DEMO CONFIGURATION - edit these flags to enable/disable steps
	// =====================================================
	const (
		runInitMarket    = true
		runInitPool      = true
		runAddToWhitelist = false
		runParticipate   = true
		runAdvanceToEnd  = true
		runClaim         = true
	)

	programID := solana.NewWallet().PublicKey()
	marketOwner := solana.NewWallet().PublicKey()
	market := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()
	mintCollection := solana.NewWallet().PublicKey()
	mintDistribution := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	userAccountFrom := solana.NewWallet().PublicKey()
	userAccountTo := solana.NewWallet().PublicKey()

	fmt.Printf("Program ID:    %s\n", programID)
	fmt.Printf("Market owner:  %s\n", marketOwner)
	fmt.Printf("Market:        %s\n", market)
	fmt.Printf("Pool:          %s\n\n", pool)

	clock := idoprogram.FixedClock(1_700_000_000)
	store := idoprogram.NewAccountStore(clock, idoprogram.DefaultRentOracle{}, idoprogram.NewLedgerAdapter())
	signedAlways := func(solana.PublicKey) bool { return true }

	fund := func(key solana.PublicKey, dataLen int) {
		store.Fund(key, programID, idoprogram.DefaultRentOracle{}.MinimumBalance(dataLen))
	}

	if runInitMarket {
		fmt.Println("--- Step 1: InitMarket ---")
		fund(market, idoprogram.MarketLen)
		if err := idoprogram.InitMarket(store, market, marketOwner, signedAlways); err != nil {
			log.Fatalf("init market: %v", err)
		}
		fmt.Println("market initialized")
	}

	accountCollection, _, _ := idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleCollection)
	accountDistribution, _, _ := idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleDistribution)
	mintPool, _, _ := idoprogram.DeriveCustodyAddress(programID, market, pool, idoprogram.RoleMint)
	authority, _, _ := idoprogram.DerivePoolAuthority(programID, market, pool)

	if runInitPool {
		fmt.Println("\n--- Step 2: InitPool ---")
		fund(pool, idoprogram.PoolLen)
		accs := idoprogram.InitPoolAccounts{
			Market: market, Pool: pool, MarketOwner: marketOwner,
			MintCollection: mintCollection, MintDistribution: mintDistribution,
			AccountCollection: accountCollection, AccountDistribution: accountDistribution,
			MintPool: mintPool,
		}
		params := idoprogram.InitPoolParams{
			PriceNumerator: 1, PriceDenominator: 2,
			GoalMin: 1_000, GoalMax: 10_000,
			AmountMin: 10, AmountMax: 5_000,
			TimeStart:  int64(clock),
			TimeFinish: int64(clock) + 3_600,
		}
		if err := idoprogram.InitPool(store, programID, accs, params, signedAlways); err != nil {
			log.Fatalf("init pool: %v", err)
		}
		fmt.Printf("pool initialized, authority=%s\n", authority)
	}

	if runAddToWhitelist {
		fmt.Println("\n--- Step 3: AddToWhitelist (skipped, pool has no whitelist) ---")
	}

	if runParticipate {
		fmt.Println("\n--- Step 4: Participate ---")
		tokens := store.Tokens()
		for _, err := range []error{
			tokens.InitMint(mintCollection, marketOwner),
			tokens.InitAccount(userAccountFrom, mintCollection, user),
			tokens.InitAccount(userAccountTo, mintPool, user),
			tokens.MintTo(mintCollection, userAccountFrom, marketOwner, 2_000),
		} {
			if err != nil {
				log.Fatalf("fund user: %v", err)
			}
		}
		accs := idoprogram.ParticipateAccounts{
			Market: market, Pool: pool, UserWallet: user,
			UserAccountFrom: userAccountFrom, UserAccountTo: userAccountTo,
		}
		if err := idoprogram.Participate(store, programID, accs, idoprogram.ParticipateParams{Amount: 2_000}, signedAlways); err != nil {
			log.Fatalf("participate: %v", err)
		}
		poolAcct := store.Get(pool)
		decoded, _ := idoprogram.DecodePool(poolAcct.Data)
		fmt.Printf("collected total now %d\n", decoded.CollectedTotal)
	}

	if runAdvanceToEnd {
		fmt.Println("\n--- Step 5: advance clock past TimeFinish ---")
		fmt.Println("(clock is fixed in this demo; a live client waits for the cluster's clock sysvar instead)")
	}

	if runClaim {
		fmt.Println("\n--- Step 6: Claim ---")
		poolAcct := store.Get(pool)
		decoded, err := idoprogram.DecodePool(poolAcct.Data)
		if err != nil {
			log.Fatalf("decode pool: %v", err)
		}
		stage := idoprogram.Stage(decoded, store.Now())
		fmt.Printf("pool stage: %s\n", stage)
		if stage != idoprogram.StageSuccessful && stage != idoprogram.StageFailed {
			fmt.Println("pool has not reached a terminal stage yet in this demo; skipping claim")
		} else {
			accs := idoprogram.ClaimAccounts{
				Market: market, Pool: pool, AccountFrom: userAccountTo,
				UserAuthority: user, AccountPool: accountDistribution, AccountTo: userAccountFrom,
			}
			if err := idoprogram.Claim(store, programID, accs, signedAlways); err != nil {
				log.Fatalf("claim: %v", err)
			}
			fmt.Println("claim settled")
		}
	}

	fmt.Println("\n=== Demo complete ===")
}
