package idoserver

import (
	"encoding/json"
	"net/http"

	"github.com/gagliardetto/solana-go"

	"solstarter/internal/idoledger"
	"solstarter/internal/idoprogram"
)

// AddToWhitelistRequest is the body of POST /api/add-to-whitelist.
type AddToWhitelistRequest struct {
	Pool             string `json:"pool"`
	PoolOwner        string `json:"pool_owner"`
	AccountWhitelist string `json:"account_whitelist"`
	MintWhitelist    string `json:"mint_whitelist"`
}

// HandleAddToWhitelist mints one whitelist token to a user's whitelist
// account during a pool's Preparing stage.
func (s *Server) HandleAddToWhitelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req AddToWhitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}

	var accs idoprogram.AddToWhitelistAccounts
	var err error
	if accs.Pool, err = pubkey(req.Pool); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.PoolOwner, err = pubkey(req.PoolOwner); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.AccountWhitelist, err = pubkey(req.AccountWhitelist); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.MintWhitelist, err = pubkey(req.MintWhitelist); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountKeys := []solana.PublicKey{accs.Pool, accs.PoolOwner, accs.AccountWhitelist, accs.MintWhitelist}
	signers := map[solana.PublicKey]bool{accs.PoolOwner: true}
	err = s.withPoolLock(accs.Pool, func() error {
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, idoprogram.EncodeTagOnly(idoprogram.TagAddToWhitelist))
	})
	s.recordEvent(idoledger.Event{
		Pool: accs.Pool.String(), Kind: "add_to_whitelist", User: accs.PoolOwner.String(),
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// WithdrawRequest is the body of POST /api/withdraw.
type WithdrawRequest struct {
	Market      string `json:"market"`
	Pool        string `json:"pool"`
	PoolOwner   string `json:"pool_owner"`
	AccountFrom string `json:"account_from"`
	AccountTo   string `json:"account_to"`
}

// HandleWithdraw lets a pool owner drain a custody account once the pool
// has reached a terminal stage.
func (s *Server) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}

	var accs idoprogram.WithdrawAccounts
	var err error
	if accs.Market, err = pubkey(req.Market); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.Pool, err = pubkey(req.Pool); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.PoolOwner, err = pubkey(req.PoolOwner); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.AccountFrom, err = pubkey(req.AccountFrom); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	if accs.AccountTo, err = pubkey(req.AccountTo); err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountKeys := []solana.PublicKey{accs.Market, accs.Pool, accs.PoolOwner, accs.AccountFrom, accs.AccountTo}
	signers := map[solana.PublicKey]bool{accs.PoolOwner: true}
	err = s.withPoolLock(accs.Pool, func() error {
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, idoprogram.EncodeTagOnly(idoprogram.TagWithdraw))
	})
	s.recordEvent(idoledger.Event{
		Market: accs.Market.String(), Pool: accs.Pool.String(), Kind: "withdraw",
		User: accs.PoolOwner.String(), Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// KycRequest is the shared body of POST /api/set-kyc and /api/clear-kyc.
type KycRequest struct {
	Market        string `json:"market"`
	MarketOwner   string `json:"market_owner"`
	UserWallet    string `json:"user_wallet"`
	MarketUserKyc string `json:"market_user_kyc"`
	Expiration    int64  `json:"expiration,omitempty"`
}

func decodeKycAccounts(req KycRequest) (idoprogram.KycAccounts, error) {
	var accs idoprogram.KycAccounts
	var err error
	if accs.Market, err = pubkey(req.Market); err != nil {
		return accs, err
	}
	if accs.MarketOwner, err = pubkey(req.MarketOwner); err != nil {
		return accs, err
	}
	if accs.UserWallet, err = pubkey(req.UserWallet); err != nil {
		return accs, err
	}
	if accs.MarketUserKyc, err = pubkey(req.MarketUserKyc); err != nil {
		return accs, err
	}
	return accs, nil
}

// HandleSetKyc grants (or refreshes) a user's KYC record for a market.
func (s *Server) HandleSetKyc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req KycRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}
	accs, err := decodeKycAccounts(req)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountKeys := []solana.PublicKey{accs.Market, accs.MarketOwner, accs.UserWallet, accs.MarketUserKyc}
	signers := map[solana.PublicKey]bool{accs.MarketOwner: true}
	data := idoprogram.EncodeSetKyc(req.Expiration)
	err = s.withPoolLock(accs.MarketUserKyc, func() error {
		s.store.Fund(accs.MarketUserKyc, s.ProgramID, idoprogram.DefaultRentOracle{}.MinimumBalance(idoprogram.KycLen))
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, data)
	})
	s.recordEvent(idoledger.Event{
		Market: accs.Market.String(), Kind: "set_kyc", User: accs.UserWallet.String(),
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// HandleClearKyc revokes a user's KYC record for a market.
func (s *Server) HandleClearKyc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	var req KycRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errBadRequest, http.StatusBadRequest)
		return
	}
	accs, err := decodeKycAccounts(req)
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}

	accountKeys := []solana.PublicKey{accs.Market, accs.MarketOwner, accs.UserWallet, accs.MarketUserKyc}
	signers := map[solana.PublicKey]bool{accs.MarketOwner: true}
	err = s.withPoolLock(accs.MarketUserKyc, func() error {
		return idoprogram.Dispatch(s.store, s.ProgramID, accountKeys, signers, idoprogram.EncodeTagOnly(idoprogram.TagClearKyc))
	})
	s.recordEvent(idoledger.Event{
		Market: accs.Market.String(), Kind: "clear_kyc", User: accs.UserWallet.String(),
		Succeeded: err == nil, ErrorCode: errorCode(err),
	})
	if err != nil {
		respondError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
