package idoserver

import (
	"encoding/json"
	"net/http"

	"github.com/gagliardetto/solana-go"

	"solstarter/internal/idoledger"
	"solstarter/internal/idoprogram"
)

// ErrorResponse is the JSON body returned on any handler failure.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	ErrorCode uint32 `json:"error_code,omitempty"`
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error, status int) {
	respondJSON(w, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   err.Error(),
		Code:      status,
		ErrorCode: errorCode(err),
	}, status)
}

func pubkey(s string) (solana.PublicKey, error) {
	if s == "" {
		return idoprogram.ZeroKey, nil
	}
	return solana.PublicKeyFromBase58(s)
}

// InitMarketRequest is the body of POST /api/init-market.
type InitMarketRequest struct {
	Market string `json:"market"`
	Owner  string `json:"owner"`
}

// HandleInitMarket creates a fresh market. Owner is treated as the signer:
// a real deployment verifies a submitted transaction's signatures, this
// in-memory demo trusts the caller's claim, matching the other handlers'
// choice to accept signer identity as a request field rather than a
// cryptographic proof (see internal/idoclient for actual transaction
// signing).
func (s *Server) HandleInitMarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req InitMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}
	market, err := pubkey(req.Market)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	owner, err := pubkey(req.Owner)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountKeys := []solana.PublicKey{market, owner}
	signers := map[solana.PublicKey]bool{owner: true}
	err = s.withPoolLock(market, func() error {
		s.store.Fund(market, s.ProgramID, idoprogram.DefaultRentOracle{}.MinimumBalance(idoprogram.MarketLen))
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, idoprogram.EncodeTagOnly(idoprogram.TagInitMarket))
	})
	s.recordEvent(idoledger.Event{
		Market: market.String(), Kind: "init_market", User: owner.String(),
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"market": market.String()}, http.StatusOK)
}

// InitPoolRequest is the body of POST /api/init-pool.
type InitPoolRequest struct {
	Market           string `json:"market"`
	Pool             string `json:"pool"`
	MarketOwner      string `json:"market_owner"`
	MintCollection   string `json:"mint_collection"`
	MintDistribution string `json:"mint_distribution"`
	PriceNumerator   uint64 `json:"price_numerator"`
	PriceDenominator uint64 `json:"price_denominator"`
	GoalMin          uint64 `json:"goal_min"`
	GoalMax          uint64 `json:"goal_max"`
	AmountMin        uint64 `json:"amount_min"`
	AmountMax        uint64 `json:"amount_max"`
	TimeStart        int64  `json:"time_start"`
	TimeFinish       int64  `json:"time_finish"`
	HasWhitelist     bool   `json:"has_whitelist"`
	IsKYC            bool   `json:"is_kyc"`
}

// InitPoolResponse reports the PDAs this handler derived and initialized,
// so a caller never has to re-derive them client-side.
type InitPoolResponse struct {
	Pool                string `json:"pool"`
	AccountCollection   string `json:"account_collection"`
	AccountDistribution string `json:"account_distribution"`
	MintPool            string `json:"mint_pool"`
	MintWhitelist       string `json:"mint_whitelist,omitempty"`
	Authority           string `json:"authority"`
}

// HandleInitPool derives the pool's custody PDAs, funds the pool account as
// rent-exempt in the in-memory store (standing in for the system program's
// create-account step a real client issues first), and initializes the
// pool.
func (s *Server) HandleInitPool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req InitPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}

	market, err := pubkey(req.Market)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	pool, err := pubkey(req.Pool)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	marketOwner, err := pubkey(req.MarketOwner)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	mintCollection, err := pubkey(req.MintCollection)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	mintDistribution, err := pubkey(req.MintDistribution)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountCollection, _, err := idoprogram.DeriveCustodyAddress(s.ProgramID, market, pool, idoprogram.RoleCollection)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	accountDistribution, _, err := idoprogram.DeriveCustodyAddress(s.ProgramID, market, pool, idoprogram.RoleDistribution)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	mintPool, _, err := idoprogram.DeriveCustodyAddress(s.ProgramID, market, pool, idoprogram.RoleMint)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	var mintWhitelist solana.PublicKey
	if req.HasWhitelist {
		mintWhitelist, _, err = idoprogram.DeriveCustodyAddress(s.ProgramID, market, pool, idoprogram.RoleWhitelist)
		if err != nil {
			respondError(w, err, http.StatusInternalServerError)
			return
		}
	}
	authority, _, err := idoprogram.DerivePoolAuthority(s.ProgramID, market, pool)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}

	params := idoprogram.InitPoolParams{
		PriceNumerator: req.PriceNumerator, PriceDenominator: req.PriceDenominator,
		GoalMin: req.GoalMin, GoalMax: req.GoalMax,
		AmountMin: req.AmountMin, AmountMax: req.AmountMax,
		TimeStart: req.TimeStart, TimeFinish: req.TimeFinish,
		HasWhitelist: req.HasWhitelist, IsKYC: req.IsKYC,
	}

	accountKeys := []solana.PublicKey{
		market, pool, marketOwner, mintCollection, mintDistribution,
		accountCollection, accountDistribution, mintPool, mintWhitelist,
	}
	signers := map[solana.PublicKey]bool{marketOwner: true}
	data := idoprogram.EncodeInitPool(params)
	err = s.withPoolLock(pool, func() error {
		s.store.Fund(pool, s.ProgramID, idoprogram.DefaultRentOracle{}.MinimumBalance(idoprogram.PoolLen))
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, data)
	})
	s.recordEvent(idoledger.Event{
		Market: market.String(), Pool: pool.String(), Kind: "init_pool", User: marketOwner.String(),
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, InitPoolResponse{
		Pool: pool.String(), AccountCollection: accountCollection.String(),
		AccountDistribution: accountDistribution.String(), MintPool: mintPool.String(),
		MintWhitelist: mintWhitelist.String(), Authority: authority.String(),
	}, http.StatusOK)
}

// ParticipateRequest is the body of POST /api/participate.
type ParticipateRequest struct {
	Market           string `json:"market"`
	Pool             string `json:"pool"`
	UserWallet       string `json:"user_wallet"`
	UserAccountFrom  string `json:"user_account_from"`
	UserAccountTo    string `json:"user_account_to"`
	MarketUserKyc    string `json:"market_user_kyc"`
	AccountWhitelist string `json:"account_whitelist"`
	MintWhitelist    string `json:"mint_whitelist"`
	Amount           uint64 `json:"amount"`
}

// HandleParticipate executes a purchase against an active pool.
func (s *Server) HandleParticipate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req ParticipateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}

	accs, err := decodeParticipateAccounts(req)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	userWallet := accs.UserWallet
	accountKeys := []solana.PublicKey{
		accs.Market, accs.Pool, accs.UserWallet, accs.UserAccountFrom, accs.UserAccountTo,
		accs.MarketUserKyc, accs.AccountWhitelist, accs.MintWhitelist,
	}
	signers := map[solana.PublicKey]bool{userWallet: true}
	data := idoprogram.EncodeParticipate(req.Amount)

	err = s.withPoolLock(accs.Pool, func() error {
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, data)
	})
	s.recordEvent(idoledger.Event{
		Market: accs.Market.String(), Pool: accs.Pool.String(), Kind: "participate",
		User: userWallet.String(), Amount: req.Amount,
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func decodeParticipateAccounts(req ParticipateRequest) (idoprogram.ParticipateAccounts, error) {
	var accs idoprogram.ParticipateAccounts
	var err error
	if accs.Market, err = pubkey(req.Market); err != nil {
		return accs, err
	}
	if accs.Pool, err = pubkey(req.Pool); err != nil {
		return accs, err
	}
	if accs.UserWallet, err = pubkey(req.UserWallet); err != nil {
		return accs, err
	}
	if accs.UserAccountFrom, err = pubkey(req.UserAccountFrom); err != nil {
		return accs, err
	}
	if accs.UserAccountTo, err = pubkey(req.UserAccountTo); err != nil {
		return accs, err
	}
	if accs.MarketUserKyc, err = pubkey(req.MarketUserKyc); err != nil {
		return accs, err
	}
	if accs.AccountWhitelist, err = pubkey(req.AccountWhitelist); err != nil {
		return accs, err
	}
	if accs.MintWhitelist, err = pubkey(req.MintWhitelist); err != nil {
		return accs, err
	}
	return accs, nil
}

// ClaimRequest is the body of POST /api/claim.
type ClaimRequest struct {
	Market        string `json:"market"`
	Pool          string `json:"pool"`
	AccountFrom   string `json:"account_from"`
	UserAuthority string `json:"user_authority"`
	AccountPool   string `json:"account_pool"`
	AccountTo     string `json:"account_to"`
}

// HandleClaim burns the caller's receipt tokens and pays out the
// corresponding distribution or refund.
func (s *Server) HandleClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}

	var accs idoprogram.ClaimAccounts
	var err error
	if accs.Market, err = pubkey(req.Market); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.Pool, err = pubkey(req.Pool); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.AccountFrom, err = pubkey(req.AccountFrom); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.UserAuthority, err = pubkey(req.UserAuthority); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.AccountPool, err = pubkey(req.AccountPool); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.AccountTo, err = pubkey(req.AccountTo); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountKeys := []solana.PublicKey{
		accs.Market, accs.Pool, accs.AccountFrom, accs.UserAuthority, accs.AccountPool, accs.AccountTo,
	}
	signers := map[solana.PublicKey]bool{accs.UserAuthority: true}
	err = s.withPoolLock(accs.Pool, func() error {
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, idoprogram.EncodeTagOnly(idoprogram.TagClaim))
	})
	s.recordEvent(idoledger.Event{
		Market: accs.Market.String(), Pool: accs.Pool.String(), Kind: "claim",
		User: accs.UserAuthority.String(),
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// PoolStateResponse is the body of GET /api/pool?pool=...
type PoolStateResponse struct {
	Pool           string `json:"pool"`
	Market         string `json:"market"`
	Stage          string `json:"stage"`
	CollectedTotal uint64 `json:"collected_total"`
	GoalMin        uint64 `json:"goal_min"`
	GoalMax        uint64 `json:"goal_max"`
	TimeStart      int64  `json:"time_start"`
	TimeFinish     int64  `json:"time_finish"`
}

// HandleGetPool decodes and returns a pool's current state and stage.
func (s *Server) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	poolKey, err := pubkey(r.URL.Query().Get("pool"))
	if err != nil || poolKey.IsZero() {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}

	acct := s.store.Get(poolKey)
	if idoprogram.Discriminant(acct.Data) != idoprogram.DiscPool {
		respondError(w, errPoolNotFound, http.StatusNotFound)
		return
	}
	pool, err := idoprogram.DecodePool(acct.Data)
	if err != nil {
		respondError(w, err, http.StatusInternalServerError)
		return
	}
	respondJSON(w, PoolStateResponse{
		Pool: poolKey.String(), Market: pool.Market.String(),
		Stage: idoprogram.Stage(pool, s.store.Now()).String(),
		CollectedTotal: pool.CollectedTotal, GoalMin: pool.GoalMin, GoalMax: pool.GoalMax,
		TimeStart: pool.TimeStart, TimeFinish: pool.TimeFinish,
	}, http.StatusOK)
}

// HandleHealth answers liveness probes.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
