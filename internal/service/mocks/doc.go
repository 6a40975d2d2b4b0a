// Package mocks provides mock implementations of the service ports for testing.
package mocks

//go:generate mockgen -destination=mock_service.go -package=mocks github.com/Dan9191/bank-cards/internal/service CardStore,CardRegistry,ExpiryStore,TransferLedger,UnitOfWork,UserStore,Notifier
