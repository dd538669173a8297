package mysql

const upsertRestaurantSQL = `
INSERT INTO restaurants
  (name, city, area, address, lat, lon, cuisines, rating, votes, cost_for_two,
   price_category, spicy_level, food_type, best_dish, famous_for,
   opening_time, closing_time, open_now)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  address        = VALUES(address),
  lat            = VALUES(lat),
  lon            = VALUES(lon),
  cuisines       = VALUES(cuisines),
  rating         = VALUES(rating),
  votes          = VALUES(votes),
  cost_for_two   = VALUES(cost_for_two),
  price_category = VALUES(price_category),
  spicy_level    = VALUES(spicy_level),
  food_type      = VALUES(food_type),
  best_dish      = VALUES(best_dish),
  famous_for     = VALUES(famous_for),
  opening_time   = VALUES(opening_time),
  closing_time   = VALUES(closing_time),
  open_now       = VALUES(open_now),
  updated_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Shared column list so every read scans identically.
const selectColumns = `
  id, name, city, area, address, lat, lon, cuisines, rating, votes,
  cost_for_two, price_category, spicy_level, food_type, best_dish, famous_for,
  opening_time, closing_time, open_now
`

const selectByCitySQL = `
SELECT` + selectColumns + `
FROM restaurants
WHERE city = ?
ORDER BY id
`

const selectByCityAreaSQL = `
SELECT` + selectColumns + `
FROM restaurants
WHERE city = ? AND area = ?
ORDER BY id
`

// Case-insensitive city resolution; returns the canonical stored spelling.
const resolveCitySQL = `
SELECT city FROM restaurants WHERE LOWER(city) = LOWER(?) LIMIT 1
`

const countByCitySQL = `
SELECT COUNT(*) FROM restaurants WHERE city = ?
`

const countAllSQL = `
SELECT COUNT(*) FROM restaurants
`
