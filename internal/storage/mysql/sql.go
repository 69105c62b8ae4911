package mysql

const insertBookingSQL = `
INSERT INTO holiday_bookings
  (booking_reference, status, customer_id, holiday_package_id)
VALUES
  (?, ?, ?, ?)
`

const updateBookingSQL = `
UPDATE holiday_bookings
SET status = ?, customer_id = ?, holiday_package_id = ?
WHERE booking_reference = ?
`

const selectBookingsSQL = `
SELECT id, booking_reference, status, customer_id, holiday_package_id
FROM holiday_bookings
ORDER BY id
`

const selectBookingByReferenceSQL = `
SELECT id, booking_reference, status, customer_id, holiday_package_id
FROM holiday_bookings
WHERE booking_reference = ?
`

const selectBookingsByCustomerSQL = `
SELECT id, booking_reference, status, customer_id, holiday_package_id
FROM holiday_bookings
WHERE customer_id = ?
ORDER BY id
`

const insertTravellerSQL = `
INSERT INTO travellers (name, age, passport_number, holiday_booking_id)
VALUES (?, ?, ?, ?)
`

const selectTravellersSQL = `
SELECT id, name, age, passport_number, holiday_booking_id
FROM travellers
ORDER BY id
`

const insertPackageSQL = `
INSERT INTO holiday_packages (title, description, max_capacity, url)
VALUES (?, ?, ?, ?)
`

const selectPackagesSQL = `
SELECT id, title, description, max_capacity, url
FROM holiday_packages
ORDER BY id
`

const selectPackageByIDSQL = `
SELECT id, title, description, max_capacity, url
FROM holiday_packages
WHERE id = ?
`

const selectPackageByURLSQL = `
SELECT id, title, description, max_capacity, url
FROM holiday_packages
WHERE url = ?
`

// external_id carries a UNIQUE key; a duplicate insert is the storage layer
// rejecting a reconcile race, and the error propagates untouched.
const insertHotelSQL = `
INSERT INTO hotels (name, address, rating, lat, lon, external_id)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectHotelsSQL = `
SELECT id, name, address, rating, lat, lon, external_id
FROM hotels
ORDER BY id
`

const selectHotelByExternalIDSQL = `
SELECT id, name, address, rating, lat, lon, external_id
FROM hotels
WHERE external_id = ?
`

const insertRoomSQL = `
INSERT INTO hotel_rooms
  (hotel_id, external_room_id, name, description, capacity, price, meal_plan, refundable, arrival_date, departure_date)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectRoomsByHotelSQL = `
SELECT id, hotel_id, external_room_id, name, description, capacity, price, meal_plan, refundable, arrival_date, departure_date
FROM hotel_rooms
WHERE hotel_id = ?
ORDER BY id
`

const deleteRoomsByStaySQL = `
DELETE FROM hotel_rooms
WHERE hotel_id = ? AND arrival_date = ? AND departure_date = ?
`

const selectUserByIDSQL = `
SELECT id, email, first_name, last_name
FROM users
WHERE id = ?
`

const insertUserSQL = `
INSERT INTO users (id, email, first_name, last_name)
VALUES (?, ?, ?, ?)
`
