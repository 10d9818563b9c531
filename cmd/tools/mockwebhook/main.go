package main

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Sends a signed, Midtrans-shaped payment notification to a running server.
// Works against both the real adapter (pass the sandbox server key) and the
// mock gateway (pass MOCK_GATEWAY_SECRET).

type notificationPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

func main() {
	url := flag.String("url", "http://localhost:8080/payment/notification", "Notification URL")
	serverKey := flag.String("server-key", os.Getenv("MIDTRANS_SERVER_KEY"), "Gateway server key (signature secret)")
	orderRef := flag.String("order-ref", "", "Gateway order id (the stored gateway_txn_ref), required")
	txStatus := flag.String("status", "settlement", "transaction_status (settlement, capture, pending, cancel, deny, expire, refund)")
	fraud := flag.String("fraud", "accept", "fraud_status (accept, challenge, deny; empty to omit)")
	statusCode := flag.String("status-code", "200", "status_code")
	amount := flag.String("amount", "150000.00", "gross_amount")
	txID := flag.String("transaction-id", "mock-tx-1", "transaction_id")
	payType := flag.String("payment-type", "bank_transfer", "payment_type")
	dryRun := flag.Bool("dry-run", false, "Only print the payload, don't send")

	flag.Parse()

	if *serverKey == "" {
		fmt.Fprintf(os.Stderr, "Error: server key not provided and MIDTRANS_SERVER_KEY not set\n")
		os.Exit(1)
	}
	if *orderRef == "" {
		fmt.Fprintf(os.Stderr, "Error: -order-ref is required\n")
		os.Exit(1)
	}

	payload := notificationPayload{
		OrderID:           *orderRef,
		StatusCode:        *statusCode,
		GrossAmount:       *amount,
		SignatureKey:      sign(*orderRef, *statusCode, *amount, *serverKey),
		TransactionID:     *txID,
		TransactionStatus: *txStatus,
		FraudStatus:       *fraud,
		PaymentType:       *payType,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling payload: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Body: %s\n", string(body))

	if *dryRun {
		fmt.Println("\n[DRY RUN] Not sending request")
		return
	}

	fmt.Printf("\nSending to %s...\n", *url)
	resp, err := http.Post(*url, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Response: %s\n", string(respBody))

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

func sign(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
