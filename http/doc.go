// Package http provides the kvdrop HTTP server.
//
// The router serves a login page, accepts browser uploads, hands out two
// generated client scripts and reads and writes items through a Service.
// All credentials are the single shared token, presented either as
// "Authorization: Bearer <token>" or as the auth_token cookie set by a
// successful login.
//
// # Routes
//
//	GET  /                   login form, always public
//	POST /                   multipart upload (field "file", auth) or login (field "token")
//	ANY  /config/update.bat  Windows batch upload script (auth)
//	ANY  /config/update.sh   POSIX shell upload script (auth)
//	GET  /<key>              read an item (auth)
//	POST /<key>              write an item from "text" or "b64" (auth)
//
// Paths are lowercased before routing. Responses are plain text except for
// the HTML pages:
//
//	403 Unauthorized          credential missing or wrong
//	400 No file uploaded      multipart upload without a file
//	400 No content provided   write without text or b64
//	404 Not Found             key has no item
//	405 Method not allowed    unsupported verb, after the credential check
//	500 Error: <message>      anything unexpected, including an unbound store
//
// # Usage
//
//	service := kvdrop.NewService(db.GetStore())
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Token:         token,
//	    MaxUploadSize: 25 << 20,
//	}, service)
//	http.ListenAndServe(":8787", handler.Router())
//
// # Middleware
//
// Every request passes through RequestID, RequestLogger and Recoverer,
// optional CORS, then RequireStore, NormalizePath and LimitBody. Protected
// routes add RequireAuth.
package http
