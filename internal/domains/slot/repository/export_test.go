package repository

var ErrNoTransaction = errNoTransaction
