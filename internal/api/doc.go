// Package api exposes the reservation engine over its HTTP JSON contract.
//
// # Endpoints
//
//	POST   /api/auth/register              register, returns tokens (201)
//	POST   /api/auth/login                 login, returns tokens
//	POST   /api/auth/refresh               rotate a refresh token
//	GET    /api/users                      list users (auth)
//	GET    /api/users/me                   current profile (auth)
//	GET    /api/users/{id}                 direct lookup (auth)
//	GET    /api/slots                      bookable slots with owner info
//	GET    /api/slots/byOwner?ownerId=     one owner's bookable slots
//	POST   /api/slots                      publish a slot (auth, 201)
//	DELETE /api/slots/{id}                 delete own slot (auth, 204)
//	POST   /api/reservations               request a booking (auth, 201)
//	GET    /api/reservations?userId=       reservations touching a user (auth)
//	GET    /api/reservations/bySlot?slotId= reservations against a slot (auth)
//	PUT    /api/reservations/{id}/confirm  owner confirms (auth)
//	DELETE /api/reservations/{id}          reject or cancel (auth, 204)
//	GET    /health                         liveness
//
// # Error Mapping
//
// Engine errors map onto statuses: invalid interval or malformed input 400,
// bad credentials 401, policy denials 403, missing entities 404, conflicts
// (duplicate email, slot taken, overlap, non-ACTIVE confirm, booked-slot
// delete) 409, and anything unclassified 503 as a retryable storage failure.
// Bodies are always {"error": "..."}.
package api
