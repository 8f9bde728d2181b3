package catalog

import (
	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/shopspring/decimal"
)

func eur(amount string) domain.Money {
	return domain.EUR(decimal.RequireFromString(amount))
}

// productBase holds the locale independent part of a product.
type productBase struct {
	id    string
	price domain.Money
	icon  string
	image string
}

type productText struct {
	name        string
	description string
	specs       []string
}

var productBases = []productBase{
	{id: "usb-tails", price: eur("49.99"), icon: "usb", image: "https://images.unsplash.com/photo-1626285861696-9f0bf5a49c6d?q=80&w=800&auto=format&fit=crop"},
	{id: "opsec-guide", price: eur("19.99"), icon: "file", image: "https://images.unsplash.com/photo-1555421689-d68471e189f2?q=80&w=800&auto=format&fit=crop"},
	{id: "phone-graphene", price: eur("699.00"), icon: "smartphone", image: "https://images.unsplash.com/photo-1555774698-0b77e0d5fac6?q=80&w=800&auto=format&fit=crop"},
	{id: "pixel-pro", price: eur("999.00"), icon: "smartphone", image: "https://images.unsplash.com/photo-1598327105666-5b89351aff23?q=80&w=800&auto=format&fit=crop"},
	{id: "faraday-bag", price: eur("35.00"), icon: "shield", image: "https://images.unsplash.com/photo-1614064641938-3bbee52942c7?q=80&w=800&auto=format&fit=crop"},
	{id: "faraday-backpack", price: eur("129.00"), icon: "backpack", image: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?q=80&w=800&auto=format&fit=crop"},
	{id: "burner-sim", price: eur("80.00"), icon: "sim", image: "https://images.unsplash.com/photo-1588508065123-287b28e013da?q=80&w=800&auto=format&fit=crop"},
	{id: "yubikey", price: eur("55.00"), icon: "key", image: "https://images.unsplash.com/photo-1606229338636-3b2721869877?q=80&w=800&auto=format&fit=crop"},
	{id: "vpn-router", price: eur("119.00"), icon: "wifi", image: "https://images.unsplash.com/photo-1544197150-b99a580bbcbf?q=80&w=800&auto=format&fit=crop"},
	{id: "laptop-hardened", price: eur("1249.00"), icon: "laptop", image: "https://images.unsplash.com/photo-1525547719571-a2d4ac8945e2?q=80&w=800&auto=format&fit=crop"},
	{id: "voice-changer", price: eur("149.00"), icon: "mic", image: "https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?q=80&w=800&auto=format&fit=crop"},
}

var productTexts = map[locale]map[string]productText{
	localeIT: {
		"usb-tails": {
			name:        "USB Ghost Key",
			description: "Chiavetta USB criptata con OS Tails live. Nessuna traccia sul disco rigido ospite.",
			specs:       []string{"32GB Encrypted", "Tails OS pre-flash", "Auto-Wipe Panic Button"},
		},
		"opsec-guide": {
			name:        "Guida PDF OpSec Base",
			description: "Manuale operativo essenziale per la sicurezza digitale personale e comportamentale.",
			specs:       []string{"PDF Criptato", "Checklist Sicurezza", "Best Practices 2024"},
		},
		"phone-graphene": {
			name:        "Pixel Stealth",
			description: "Smartphone Google Pixel de-googlizzato con GrapheneOS preinstallato e hardened.",
			specs:       []string{"GrapheneOS", "Microfono disabilitabile", "Sandbox Isole"},
		},
		"pixel-pro": {
			name:        "Pixel Stealth Pro",
			description: "Versione potenziata con hardware tamper-proof e rimozione fisica fotocamere/microfoni su richiesta.",
			specs:       []string{"Titan M2 Chip", "No-Mic Mod", "Ram Disk Mode"},
		},
		"faraday-bag": {
			name:        "Signal Block Bag",
			description: "Custodia schermata militare. Blocca GPS, WiFi, GSM, 4G, 5G, RFID e NFC.",
			specs:       []string{"Doppio strato Faraday", "Waterproof", "Anti-Tracking"},
		},
		"faraday-backpack": {
			name:        "Faraday Backpack",
			description: "Zaino tattico completamente schermato per laptop e attrezzatura sensibile.",
			specs:       []string{"25L Capacity", "Molle System", "Total Signal Block"},
		},
		"burner-sim": {
			name:        "Anon-SIM Internazionale",
			description: "SIM Card prepagata anonima funzionante in 120 paesi. Nessun KYC richiesto.",
			specs:       []string{"No ID Req", "Multi-Network", "Crypto Payment Only"},
		},
		"yubikey": {
			name:        "YubiKey 5 NFC",
			description: "Chiave di sicurezza hardware per autenticazione a due fattori (2FA) e FIDO2.",
			specs:       []string{"NFC Enabled", "USB-A/C", "Water Resistant"},
		},
		"vpn-router": {
			name:        "Router VPN Travel",
			description: "Router portatile con OpenWRT e VPN WireGuard pre-configurata con Kill Switch.",
			specs:       []string{"WireGuard Ready", "Tor Bridge", "Battery Powered"},
		},
		"laptop-hardened": {
			name:        "Laptop Linux Hardened",
			description: "ThinkPad ricondizionato grado A con QubesOS o Tails. BIOS Open Source (Coreboot).",
			specs:       []string{"Coreboot BIOS", "Intel ME Disabled", "QubesOS"},
		},
		"voice-changer": {
			name:        "Voice Changer HW",
			description: "Modulatore vocale hardware per chiamate sicure. Altera timbro e frequenza in tempo reale.",
			specs:       []string{"Real-time Process", "No Latency", "Jack 3.5mm I/O"},
		},
	},
	localeEN: {
		"usb-tails": {
			name:        "USB Ghost Key",
			description: "Encrypted USB stick running Tails live. Leaves no trace on the host hard drive.",
			specs:       []string{"32GB Encrypted", "Tails OS pre-flashed", "Auto-Wipe Panic Button"},
		},
		"opsec-guide": {
			name:        "Basic OpSec PDF Guide",
			description: "Essential field manual for personal and behavioural digital security.",
			specs:       []string{"Encrypted PDF", "Security Checklist", "Best Practices 2024"},
		},
		"phone-graphene": {
			name:        "Pixel Stealth",
			description: "De-googled Google Pixel smartphone with hardened GrapheneOS preinstalled.",
			specs:       []string{"GrapheneOS", "Disableable Microphone", "Sandboxed Profiles"},
		},
		"pixel-pro": {
			name:        "Pixel Stealth Pro",
			description: "Upgraded edition with tamper-proof hardware and physical camera/microphone removal on request.",
			specs:       []string{"Titan M2 Chip", "No-Mic Mod", "Ram Disk Mode"},
		},
		"faraday-bag": {
			name:        "Signal Block Bag",
			description: "Military grade shielded pouch. Blocks GPS, WiFi, GSM, 4G, 5G, RFID and NFC.",
			specs:       []string{"Double Faraday Layer", "Waterproof", "Anti-Tracking"},
		},
		"faraday-backpack": {
			name:        "Faraday Backpack",
			description: "Fully shielded tactical backpack for laptops and sensitive gear.",
			specs:       []string{"25L Capacity", "Molle System", "Total Signal Block"},
		},
		"burner-sim": {
			name:        "International Anon-SIM",
			description: "Anonymous prepaid SIM card working in 120 countries. No KYC required.",
			specs:       []string{"No ID Req", "Multi-Network", "Crypto Payment Only"},
		},
		"yubikey": {
			name:        "YubiKey 5 NFC",
			description: "Hardware security key for two-factor authentication (2FA) and FIDO2.",
			specs:       []string{"NFC Enabled", "USB-A/C", "Water Resistant"},
		},
		"vpn-router": {
			name:        "Travel VPN Router",
			description: "Portable OpenWRT router with WireGuard VPN pre-configured with a kill switch.",
			specs:       []string{"WireGuard Ready", "Tor Bridge", "Battery Powered"},
		},
		"laptop-hardened": {
			name:        "Hardened Linux Laptop",
			description: "Grade A refurbished ThinkPad with QubesOS or Tails. Open source BIOS (Coreboot).",
			specs:       []string{"Coreboot BIOS", "Intel ME Disabled", "QubesOS"},
		},
		"voice-changer": {
			name:        "Voice Changer HW",
			description: "Hardware voice modulator for secure calls. Shifts timbre and pitch in real time.",
			specs:       []string{"Real-time Process", "No Latency", "Jack 3.5mm I/O"},
		},
	},
}

type bundleBase struct {
	id         string
	tier       domain.BundleTier
	price      domain.Money
	productIDs []string
}

type bundleText struct {
	name           string
	tagline        string
	features       []string
	recommendedFor string
	items          []string
}

var bundleBases = []bundleBase{
	{id: "b-base", tier: domain.TierBase, price: eur("79.99"), productIDs: []string{"usb-tails", "opsec-guide"}},
	{id: "b-medio", tier: domain.TierMedio, price: eur("149.99"), productIDs: []string{"usb-tails", "faraday-bag", "yubikey"}},
	{id: "b-imp", tier: domain.TierImprenditore, price: eur("899.00"), productIDs: []string{"phone-graphene", "faraday-bag", "vpn-router"}},
	{id: "b-ghost", tier: domain.TierFantasma, price: eur("1499.00"), productIDs: []string{"pixel-pro", "laptop-hardened", "burner-sim", "voice-changer", "faraday-backpack"}},
}

var bundleTexts = map[locale]map[string]bundleText{
	localeIT: {
		"b-base": {
			name:           "BASE PROTOCOL",
			tagline:        "Inizia a scomparire.",
			features:       []string{"Navigazione Anonima", "Boot Sicuro", "Email Criptata"},
			recommendedFor: "Principianti Privacy",
			items:          []string{"USB Ghost Key", "Guida PDF OpSec Base"},
		},
		"b-medio": {
			name:           "SHADOW PROTOCOL",
			tagline:        "Diventa difficile da tracciare.",
			features:       []string{"Schermatura Fisica", "OS Portatile", "Comunicazioni Sicure"},
			recommendedFor: "Attivisti, Giornalisti",
			items:          []string{"USB Ghost Key", "Signal Block Bag", "YubiKey 5 NFC"},
		},
		"b-imp": {
			name:           "CEO PROTOCOL",
			tagline:        "Proteggi il tuo impero.",
			features:       []string{"Hardware Dedicato", "Anti-Intercettazione", "Anonimato Finanziario"},
			recommendedFor: "CEO, VIP, Crypto Whales",
			items:          []string{"Pixel Stealth (GrapheneOS)", "Signal Block Bag", "Router VPN Travel"},
		},
		"b-ghost": {
			name:           "GHOST PROTOCOL",
			tagline:        "Tu non esisti.",
			features:       []string{"Identità Sintetica", "Off-Grid Comms", "Kit Sopravvivenza Digitale"},
			recommendedFor: "Livello Massimo di Minaccia",
			items:          []string{"Pixel Stealth Pro", "Laptop Linux Hardened", "Anon-SIM (1 anno)", "Voice Changer HW", "Faraday Backpack"},
		},
	},
	localeEN: {
		"b-base": {
			name:           "BASE PROTOCOL",
			tagline:        "Start disappearing.",
			features:       []string{"Anonymous Browsing", "Secure Boot", "Encrypted Email"},
			recommendedFor: "Privacy Beginners",
			items:          []string{"USB Ghost Key", "Basic OpSec PDF Guide"},
		},
		"b-medio": {
			name:           "SHADOW PROTOCOL",
			tagline:        "Become hard to track.",
			features:       []string{"Physical Shielding", "Portable OS", "Secure Communications"},
			recommendedFor: "Activists, Journalists",
			items:          []string{"USB Ghost Key", "Signal Block Bag", "YubiKey 5 NFC"},
		},
		"b-imp": {
			name:           "CEO PROTOCOL",
			tagline:        "Protect your empire.",
			features:       []string{"Dedicated Hardware", "Anti-Interception", "Financial Anonymity"},
			recommendedFor: "CEOs, VIPs, Crypto Whales",
			items:          []string{"Pixel Stealth (GrapheneOS)", "Signal Block Bag", "Travel VPN Router"},
		},
		"b-ghost": {
			name:           "GHOST PROTOCOL",
			tagline:        "You do not exist.",
			features:       []string{"Synthetic Identity", "Off-Grid Comms", "Digital Survival Kit"},
			recommendedFor: "Maximum Threat Level",
			items:          []string{"Pixel Stealth Pro", "Hardened Linux Laptop", "Anon-SIM (1 year)", "Voice Changer HW", "Faraday Backpack"},
		},
	},
}
