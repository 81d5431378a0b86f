// Command akinglish runs the Akinglish Telegram bot.
//
// Usage:
//
//	akinglish serve [--config path] [--env-file path]
//	akinglish lookup WORD...
//
// serve long-polls Telegram and answers every text message with Longman and Oxford links,
// Longman phonetics and British/American audio. lookup runs the same sequence for one word
// and prints the replies to stdout. The bot token is read from AKINGLISH_TELEGRAM_TOKEN or
// TOKEN; a .env file in the working directory is loaded first.
package main
