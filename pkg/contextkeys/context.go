package contextkeys

// Custom type avoids collisions with other packages' context keys.
type contextKey string

// DBContextKey is the key under which *gorm.DB (pool or transaction) is stored.
const DBContextKey = contextKey("db")
