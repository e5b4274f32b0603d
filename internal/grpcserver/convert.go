package grpcserver

import (
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/umpyre-code/beancounter/internal/payments"
	"github.com/umpyre-code/beancounter/internal/pb"
	"github.com/umpyre-code/beancounter/internal/store"
)

func balanceToPB(b *store.Balance) *pb.BalanceResponse {
	return &pb.BalanceResponse{
		ClientId:          b.ClientID,
		BalanceCents:      b.BalanceCents,
		PromoCents:        b.PromoCents,
		WithdrawableCents: b.WithdrawableCents,
		UpdatedAt:         timestamppb.New(b.UpdatedAt),
	}
}

func transactionToPB(tx *store.Transaction) *pb.Transaction {
	return &pb.Transaction{
		Id:          tx.ID,
		CreatedAt:   timestamppb.New(tx.CreatedAt),
		ClientId:    tx.ClientID,
		TxType:      txTypeToPB(tx.TxType),
		TxReason:    txReasonToPB(tx.TxReason),
		AmountCents: tx.AmountCents,
	}
}

func txTypeToPB(t store.TransactionType) pb.TransactionType {
	switch t {
	case store.TxTypeDebit:
		return pb.TransactionType_DEBIT
	case store.TxTypeCredit:
		return pb.TransactionType_CREDIT
	case store.TxTypePromoCredit:
		return pb.TransactionType_PROMO_CREDIT
	case store.TxTypePromoDebit:
		return pb.TransactionType_PROMO_DEBIT
	default:
		return pb.TransactionType_DEBIT
	}
}

func txReasonToPB(r store.TransactionReason) pb.TransactionReason {
	switch r {
	case store.ReasonMessageRead:
		return pb.TransactionReason_MESSAGE_READ
	case store.ReasonMessageUnread:
		return pb.TransactionReason_MESSAGE_UNREAD
	case store.ReasonMessageSent:
		return pb.TransactionReason_MESSAGE_SENT
	case store.ReasonCreditAdded:
		return pb.TransactionReason_CREDIT_ADDED
	case store.ReasonPayout:
		return pb.TransactionReason_PAYOUT
	default:
		return pb.TransactionReason_MESSAGE_SENT
	}
}

func accountInfoToPB(a *payments.AccountInfo) *pb.ConnectAccountInfo {
	out := &pb.ConnectAccountInfo{ClientId: a.ClientID}
	if a.State == payments.AccountActive {
		out.State = pb.ConnectAccountState_ACTIVE
	} else {
		out.State = pb.ConnectAccountState_INACTIVE
	}
	out.LoginLinkUrl = a.LoginLinkURL
	out.OauthUrl = a.OauthURL
	return out
}
