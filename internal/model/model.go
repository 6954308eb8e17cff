package model

// All returns every persisted model in dependency order for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Book{},
		&BorrowRecord{},
		&Fine{},
	}
}
