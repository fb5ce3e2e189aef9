package services

// ServiceContainer holds instances of all the application services. It is the
// entry point for accessing service functionality from the handlers.
type ServiceContainer struct {
	Transfer TransferSvcFacade
	Account  AccountSvcFacade
	Auth     AuthSvcFacade
	Support  SupportSvcFacade
	Watcher  AccountWatcher
}
